package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var server string
	var code string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the admin view of a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint := strings.TrimSuffix(server, "/") + "/api/admin?code=" + url.QueryEscape(code)
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, endpoint, nil)
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("request admin view: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read admin view: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("admin view for %s: [%d] %s", code, resp.StatusCode, strings.TrimSpace(string(body)))
			}

			var out bytes.Buffer
			if err := json.Indent(&out, body, "", "  "); err != nil {
				return fmt.Errorf("decode admin view: %w", err)
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "Public API base URL")
	cmd.Flags().StringVar(&code, "code", "", "Session code")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
