package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	migrations "github.com/dropDatabas3/kurso/migrations/postgres"
)

type client struct {
	BaseURL   string
	APIKey    string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-Admin-API-Key", c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("KURSO_ADMIN_URL", "http://localhost:8080")
		apiKey  = envOr("KURSO_ADMIN_KEY", "")
		out     = envOr("KURSO_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "kurso",
		Short: "CLI admin para Kurso (catálogo y migraciones)",
	}

	root.PersistentFlags().StringVar(&baseURL, "admin-api-url", baseURL, "URL base del Admin API (env KURSO_ADMIN_URL)")
	root.PersistentFlags().StringVar(&apiKey, "admin-api-key", apiKey, "API key del Admin API (env KURSO_ADMIN_KEY)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{OutFormat: out, HTTP: &http.Client{Timeout: 30 * time.Second}}
	syncClient := func() {
		cl.BaseURL = baseURL
		cl.APIKey = apiKey
		cl.OutFormat = out
	}

	requireKey := func(cmd *cobra.Command, args []string) error {
		syncClient()
		if apiKey == "" {
			return fmt.Errorf("falta API key (flag --admin-api-key o env KURSO_ADMIN_KEY)")
		}
		return nil
	}

	// ---- grupo courses ----
	coursesCmd := &cobra.Command{
		Use:   "courses",
		Short: "Cursos del catálogo (vía /v1/admin)",
	}

	coursesCmd.AddCommand(&cobra.Command{
		Use:     "list",
		Short:   "Lista todos los cursos, incluidos los no publicados",
		PreRunE: requireKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/v1/admin/courses", nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	})

	var courseJSON string
	createCourse := &cobra.Command{
		Use:     "create",
		Short:   "Crea un curso a partir de un JSON",
		PreRunE: requireKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("POST", "/v1/admin/courses", []byte(courseJSON))
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	createCourse.Flags().StringVar(&courseJSON, "json", "", `payload, ej: {"slug":"go-basico","title":"Go Básico","published":true}`)
	_ = createCourse.MarkFlagRequired("json")
	coursesCmd.AddCommand(createCourse)

	var lessonJSON string
	createLesson := &cobra.Command{
		Use:     "lesson:create",
		Short:   "Crea una lección a partir de un JSON",
		PreRunE: requireKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("POST", "/v1/admin/lessons", []byte(lessonJSON))
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	createLesson.Flags().StringVar(&lessonJSON, "json", "", "payload de la lección")
	_ = createLesson.MarkFlagRequired("json")
	coursesCmd.AddCommand(createLesson)

	// ---- migrate ----
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas contra DATABASE_DSN",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn := os.Getenv("DATABASE_DSN")
			if dsn == "" {
				return fmt.Errorf("falta DATABASE_DSN")
			}
			return runMigrations(cmd.Context(), dsn)
		},
	}

	root.AddCommand(coursesCmd, migrateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runMigrations aplica los .sql embebidos en orden lexical, cada uno en su
// propia transacción. Los archivos son idempotentes (IF NOT EXISTS), así que
// correr de nuevo no rompe nada.
func runMigrations(ctx context.Context, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return err
	}

	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		sql, err := migrations.FS.ReadFile(name)
		if err != nil {
			return err
		}
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
		fmt.Printf("applied %s\n", name)
	}
	return nil
}
