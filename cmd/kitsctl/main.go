// Command kitsctl signs in to the storefront backend and shows the admin statistics.
//
//	kitsctl login -email fan@example.com -password secret
//	kitsctl register -email fan@example.com -password secret -name Fan
//	kitsctl whoami
//	kitsctl stats
//	kitsctl logout
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"ultimate-kits/internal/client"
	"ultimate-kits/pkg/logger"

	"github.com/spf13/viper"
)

type settings struct {
	APIURL      string        `mapstructure:"api_url"`
	SessionFile string        `mapstructure:"session_file"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LogLevel    string        `mapstructure:"log_level"`
}

func loadSettings() (*settings, error) {
	v := viper.New()
	v.SetConfigName(".kitsctl")
	v.SetConfigType("yaml")
	home, _ := os.UserHomeDir()
	if home != "" {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	v.SetDefault("api_url", "http://localhost:8000")
	v.SetDefault("session_file", filepath.Join(home, ".kitsctl", "session.json"))
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix("KITS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &s, nil
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.InitCLI(cfg.LogLevel)

	if err := run(cfg, os.Args[1], os.Args[2:]); err != nil {
		logger.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: kitsctl <login|register|logout|whoami|stats> [flags]")
}

func run(cfg *settings, cmd string, args []string) error {
	session, err := client.OpenSessionStore(cfg.SessionFile)
	if err != nil {
		return err
	}
	api := client.NewClient(cfg.APIURL, cfg.Timeout)
	defer api.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	switch cmd {
	case "login", "register":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		email := fs.String("email", os.Getenv("KITS_EMAIL"), "account email")
		password := fs.String("password", os.Getenv("KITS_PASSWORD"), "account password")
		name := fs.String("name", "", "display name (register only)")
		if err := fs.Parse(args); err != nil {
			return err
		}

		var auth *client.Auth
		if cmd == "login" {
			auth, err = api.Login(ctx, *email, *password)
		} else {
			auth, err = api.Register(ctx, client.Credentials{Email: *email, Password: *password, Name: *name})
		}
		if err != nil {
			return err
		}
		if err := session.Save(auth); err != nil {
			return err
		}
		printUser(auth)
		return nil

	case "logout":
		return session.Logout()

	case "whoami":
		u := session.User()
		if u == nil {
			fmt.Println("not signed in")
			return nil
		}
		printUser(&client.Auth{User: u})
		return nil

	case "stats":
		panel := client.NewAdminPanel(api, session)
		if !panel.Visible() {
			return errors.New("admin panel is only available to admin accounts")
		}
		state := panel.Open(ctx)
		if state.Status == client.PanelError {
			return errors.New(state.Error)
		}
		printStats(state)
		return nil
	}

	usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func printUser(auth *client.Auth) {
	if auth.User == nil {
		fmt.Println("signed in")
		return
	}
	role := "shopper"
	if auth.User.IsAdmin {
		role = "admin"
	}
	fmt.Printf("%s (%s)\n", auth.User.Email, role)
}

func printStats(state client.PanelState) {
	s := state.Stats
	fmt.Printf("Visits: %d total, %d registered, %d anonymous\n", s.TotalVisits, s.RegisteredVisits, s.AnonymousVisits)
	fmt.Printf("Users: %d\n\n", s.TotalUsers)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tNAME\tADMIN\tLOGINS\tCREATED")
	for _, u := range s.Users {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%s\n", u.Email, u.Name, u.IsAdmin, u.LoginCount, u.CreatedAt.Format(time.DateTime))
	}
	_ = tw.Flush()

	fmt.Println()
	tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tPAGE\tSESSION\tUSER")
	for _, v := range s.RecentVisits {
		user := "-"
		if v.UserID != nil {
			user = *v.UserID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Timestamp.Format(time.DateTime), v.Page, v.SessionID, user)
	}
	_ = tw.Flush()
	fmt.Printf("\nfetched %s\n", state.FetchedAt.Format(time.RFC3339))
}
