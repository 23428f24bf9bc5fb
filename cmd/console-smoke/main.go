// Command console-smoke drives a live backend through the console core:
// login, profile, lead CRUD, logout. It exists to verify a deployment end to
// end; it creates and deletes one throwaway lead.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	leadconsole "github.com/leadconsole/leadconsole"
	"github.com/leadconsole/leadconsole/credentials"
)

func main() {
	var (
		configFile = flag.String("config", "", "optional config file (yaml)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	v := viper.New()
	v.SetEnvPrefix("CONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("base_url", "")
	v.SetDefault("email", "")
	v.SetDefault("password", "")
	v.SetDefault("store", "memory")
	v.SetDefault("token_file", ".console-token")
	v.SetDefault("redis_addr", "")
	v.SetDefault("timeout", "10s")

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			log.WithError(err).Fatal("read config file")
		}
	}

	baseURL := v.GetString("base_url")
	email := v.GetString("email")
	pass := v.GetString("password")
	if baseURL == "" || email == "" || pass == "" {
		fmt.Fprintln(os.Stderr, "base_url, email, and password are required (CONSOLE_BASE_URL, CONSOLE_EMAIL, CONSOLE_PASSWORD)")
		os.Exit(2)
	}

	store, cleanup, err := buildStore(v)
	if err != nil {
		log.WithError(err).Fatal("build credential store")
	}
	defer cleanup()

	cfg := leadconsole.DefaultConfig()
	cfg.Gateway.BaseURL = baseURL
	cfg.Gateway.Timeout = v.GetDuration("timeout")
	cfg.Gateway.UserAgent = "console-smoke"

	console, err := leadconsole.New().
		WithConfig(cfg).
		WithCredentialStore(store).
		WithLogger(log).
		WithUnauthorizedHandler(func(context.Context) {
			log.Warn("session rejected, token cleared")
		}).
		Build()
	if err != nil {
		log.WithError(err).Fatal("build console")
	}
	defer console.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, log, console, email, pass); err != nil {
		log.WithError(err).Fatal("smoke run failed")
	}

	snapshot := console.Metrics()
	log.WithField("counters", snapshot.Counters).Info("smoke run complete")
}

func run(ctx context.Context, log *logrus.Logger, console *leadconsole.Console, email, pass string) error {
	log.Info("logging in")
	if err := console.Login(ctx, email, pass); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	account, err := console.Profile(ctx)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	log.WithFields(logrus.Fields{"name": account.Name, "email": account.Email}).Info("profile loaded")

	page, err := console.ListLeads(ctx, leadconsole.ListLeadsParams{Page: 1})
	if err != nil {
		return fmt.Errorf("list leads: %w", err)
	}
	log.WithFields(logrus.Fields{"leads": len(page.Leads), "pages": page.Pages}).Info("first page loaded")

	probe := leadconsole.Lead{
		CompanyName:   "Smoke Test Co",
		ContactNumber: "9999999999",
		Status:        leadconsole.StatusCallback,
		Notes:         "created by console-smoke",
	}
	if err := console.CreateLead(ctx, probe); err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	log.Info("probe lead created")

	found, err := console.ListLeads(ctx, leadconsole.ListLeadsParams{Page: 1, Search: probe.ContactNumber})
	if err != nil {
		return fmt.Errorf("find probe lead: %w", err)
	}
	if len(found.Leads) == 0 {
		return fmt.Errorf("probe lead not found after create")
	}
	id := found.Leads[0].ID

	if err := console.UpdateLeadStatus(ctx, id, leadconsole.StatusNotRequired); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	log.WithField("id", id).Info("probe lead status updated")

	if err := console.DeleteLead(ctx, id); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	log.WithField("id", id).Info("probe lead deleted")

	if err := console.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	log.Info("logged out")
	return nil
}

func buildStore(v *viper.Viper) (credentials.Store, func(), error) {
	switch v.GetString("store") {
	case "memory":
		return credentials.NewMemoryStore(), func() {}, nil
	case "file":
		store, err := credentials.NewFileStore(v.GetString("token_file"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "redis":
		addr := v.GetString("redis_addr")
		if addr == "" {
			return nil, nil, fmt.Errorf("redis store needs redis_addr")
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		store, err := credentials.NewRedisStore(client)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", v.GetString("store"))
	}
}
