package cli

import (
	"fmt"
	"os"
	"os/signal"

	"hypersinc/application/http"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get URL",
	Short: "Send a GET request and print the raw response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(cmd, string(http.MethodGet), args[0], nil)
	},
}

var postCmd = &cobra.Command{
	Use:   "post URL",
	Short: "Send a POST request with --data as the body and print the raw response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, _ := cmd.Flags().GetString("data")
		return runRequest(cmd, string(http.MethodPost), args[0], []byte(data))
	},
}

var requestCmd = &cobra.Command{
	Use:   "request METHOD URL",
	Short: "Send a request with an explicit method (GET or POST)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body []byte
		if cmd.Flags().Changed("data") {
			data, _ := cmd.Flags().GetString("data")
			body = []byte(data)
		}
		return runRequest(cmd, args[0], args[1], body)
	},
}

func init() {
	rootCmd.AddCommand(getCmd, postCmd, requestCmd)

	postCmd.Flags().StringP("data", "d", "", "Request body (e.g., id=1&name=test)")
	requestCmd.Flags().StringP("data", "d", "", "Request body, sent only with POST")
}

// runRequest sends the request --count times, printing each response to stdout.
// It stops at the first failure.
func runRequest(cmd *cobra.Command, method, url string, body []byte) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	c, err := cfg.newClient(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	// CTRL+C aborts the request in flight.
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	for i := range cfg.count {
		response, err := c.Request(ctx, method, url, body)
		if err != nil {
			return errors.Wrapf(err, "request %d of %d", i+1, cfg.count)
		}
		fmt.Fprint(cmd.OutOrStdout(), response)
	}

	return nil
}

