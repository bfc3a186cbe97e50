package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"scoring-api/internal/api/http/middleware"
	"scoring-api/internal/auth"
)

const defaultAddress = "http://localhost:8080"

type options struct {
	address   string
	account   string
	login     string
	method    string
	arguments string
	token     string
	salt      string
	adminSalt string
	timeout   time.Duration
}

func main() {
	opts := options{}
	pflag.StringVarP(&opts.address, "address", "a", envOr("SERVER_ADDRESS", defaultAddress), "API base address")
	pflag.StringVar(&opts.account, "account", "", "account name")
	pflag.StringVar(&opts.login, "login", "", "login (admin for administrative requests)")
	pflag.StringVarP(&opts.method, "method", "m", "online_score", "method to call: online_score or clients_interests")
	pflag.StringVar(&opts.arguments, "arguments", "{}", "method arguments as a JSON object")
	pflag.StringVar(&opts.token, "token", "", "explicit token; computed from login when empty")
	pflag.StringVar(&opts.salt, "salt", envOr("AUTH_SALT", auth.DefaultSalt), "user token salt")
	pflag.StringVar(&opts.adminSalt, "admin-salt", envOr("AUTH_ADMIN_SALT", auth.DefaultAdminSalt), "admin token salt")
	pflag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	pflag.Parse()

	body, err := buildEnvelope(opts, auth.New(opts.salt, opts.adminSalt))
	if err != nil {
		log.Fatalf("Failed to build request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	status, response, err := send(ctx, http.DefaultClient, opts.address, body)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}

	log.Printf("HTTP %d", status)
	fmt.Println(string(response))
	if status != http.StatusOK {
		os.Exit(1)
	}
}

// buildEnvelope собирает тело запроса и подписывает его токеном
func buildEnvelope(opts options, a *auth.Authenticator) ([]byte, error) {
	var arguments map[string]any
	if err := json.Unmarshal([]byte(opts.arguments), &arguments); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}

	token := opts.token
	if token == "" {
		if opts.login == auth.AdminLogin {
			token = a.AdminToken()
		} else {
			token = a.UserToken(opts.account, opts.login)
		}
	}

	return json.Marshal(map[string]any{
		"account":   opts.account,
		"login":     opts.login,
		"method":    opts.method,
		"token":     token,
		"arguments": arguments,
	})
}

// send отправляет конверт на /method и возвращает код и тело ответа
func send(ctx context.Context, client *http.Client, address string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, address+"/method", bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, middleware.NewRequestID())

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	response, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, response, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
