package cli

import (
	"fmt"

	"hypersinc/application/http/actor/client"

	"github.com/spf13/cobra"
)

// Version information (set by build flags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "hypersinc",
	Short: "Minimal HTTP/1.0 client over raw TCP sockets",
	Long: `hypersinc - minimal HTTP/1.0 client over raw TCP sockets

Sends one GET or POST request per connection and prints the raw response,
status line and headers included, exactly as the server wrote it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)

	// Output flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every step of the request to stderr")
	rootCmd.PersistentFlags().String("charset", "utf-8", "Charset of the response text (e.g., iso-8859-1)")
	rootCmd.PersistentFlags().Int("chunk-size", client.DefaultChunkSize, "Size of each socket read in bytes")

	// Connection flags
	rootCmd.PersistentFlags().Duration("connect-timeout", client.DefaultConnectTimeout, "Connect timeout (0 disables)")
	rootCmd.PersistentFlags().Duration("send-timeout", client.DefaultSendTimeout, "Send timeout (0 disables)")
	rootCmd.PersistentFlags().Duration("timeout", client.DefaultReceiveTimeout, "Receive timeout (0 disables)")
	rootCmd.PersistentFlags().String("network", "tcp", "Network to dial (tcp, tcp4, tcp6)")
	rootCmd.PersistentFlags().Int("recv-buffer", 0, "SO_RCVBUF in bytes (0 keeps the system default)")
	rootCmd.PersistentFlags().Int("send-buffer", 0, "SO_SNDBUF in bytes (0 keeps the system default)")
	rootCmd.PersistentFlags().Bool("keepalive", false, "Enable SO_KEEPALIVE on the socket")

	// Resolution flags
	rootCmd.PersistentFlags().String("dns-server", "", "DNS server host:port used instead of the system resolver")
	rootCmd.PersistentFlags().StringArray("resolve", nil, "Static host entry (repeatable, e.g., --resolve example.com=127.0.0.1)")

	// Repetition flags
	rootCmd.PersistentFlags().IntP("count", "n", 1, "Number of times the request is sent")
	rootCmd.PersistentFlags().Float64("rps", 0, "Maximum connections per second (0 is unlimited)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hypersinc %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
