package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"ddns53/internal/account"
	"ddns53/internal/config"
	"ddns53/internal/ddns"
	"ddns53/internal/dns"
	"ddns53/internal/handler"
	"ddns53/internal/store"
)

func Start(cfg *config.Config, version string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AWS.AccessKeyID,
				cfg.AWS.SecretAccessKey,
				"",
			),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	var users store.UserStore
	switch cfg.Store.Backend {
	case "postgres":
		pg, err := store.OpenPostgres(cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("failed to open user store: %w", err)
		}
		defer pg.Close()
		users = pg
	default:
		users = store.NewDynamoStore(awsCfg, cfg.Store.UsersTable)
	}

	provider := dns.NewProvider(awsCfg)
	updateH := handler.NewUpdateHandler(ddns.NewUpdater(users, provider))
	userH := handler.NewUserHandler(account.NewProvisioner(users))

	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/nic/update", updateH.Handle)
	r.Post("/users", userH.Create)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.WithFields(log.Fields{
		"addr":    addr,
		"store":   cfg.Store.Backend,
		"version": version,
	}).Info("ddns53 server starting")
	return http.ListenAndServe(addr, r)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"client":   clientIP(r),
			"duration": time.Since(start).String(),
		}).Info("request handled")
	})
}

// clientIP resolves the originating address behind proxies.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
