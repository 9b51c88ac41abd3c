package cli

import (
	"io"
	"log/slog"
	"strings"

	"hypersinc/application/http/actor/client"
	"hypersinc/application/util/domain"
	"hypersinc/transport/tcp"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

type config struct {
	client  client.Options
	dial    tcp.DialOptions
	resolve domain.ResolveConfig

	count int
}

func configFromFlags(cmd *cobra.Command) (config, error) {
	flags := cmd.Flags()

	verbose, _ := flags.GetBool("verbose")
	charset, _ := flags.GetString("charset")
	chunkSize, _ := flags.GetInt("chunk-size")
	connectTimeout, _ := flags.GetDuration("connect-timeout")
	sendTimeout, _ := flags.GetDuration("send-timeout")
	receiveTimeout, _ := flags.GetDuration("timeout")
	network, _ := flags.GetString("network")
	recvBuffer, _ := flags.GetInt("recv-buffer")
	sendBuffer, _ := flags.GetInt("send-buffer")
	keepAlive, _ := flags.GetBool("keepalive")
	dnsServer, _ := flags.GetString("dns-server")
	rawHosts, _ := flags.GetStringArray("resolve")
	count, _ := flags.GetInt("count")
	rps, _ := flags.GetFloat64("rps")

	if count < 1 {
		return config{}, errors.Errorf("count must be at least 1, got %d", count)
	}
	if rps < 0 {
		return config{}, errors.Errorf("rps must not be negative, got %v", rps)
	}

	hosts, err := parseStaticHosts(rawHosts)
	if err != nil {
		return config{}, err
	}

	cfg := config{
		client: client.Options{
			Verbose: verbose,
			Receive: client.ReceiveOptions{
				ChunkSize: chunkSize,
				Charset:   charset,
			},
			Timeout: client.TimeoutOptions{
				Connect: connectTimeout,
				Send:    sendTimeout,
				Receive: receiveTimeout,
			},
		},
		dial: tcp.DialOptions{
			Network:   network,
			RateLimit: rate.Limit(rps),
			Socket: tcp.SocketOptions{
				ReceiveBuffer: recvBuffer,
				SendBuffer:    sendBuffer,
				KeepAlive:     keepAlive,
			},
		},
		resolve: domain.ResolveConfig{
			CustomDNSServer: dnsServer,
			Network:         ipNetwork(network),
			StaticHosts:     hosts,
		},
		count: count,
	}

	if err := cfg.client.Validate(); err != nil {
		return config{}, err
	}

	return cfg, nil
}

// newClient wires the resolver, the dialer and the logger writing to logw.
func (cfg config) newClient(logw io.Writer) (*client.Client, error) {
	lookuper, err := domain.NewResolverLookuper(cfg.resolve)
	if err != nil {
		return nil, errors.Wrap(err, "configuring resolver")
	}

	dialer, err := newDialer(lookuper, cfg.dial)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(logw, &slog.HandlerOptions{Level: slog.LevelInfo}))

	return client.New(dialer, logger, clock.New(), cfg.client), nil
}

// newDialer turns the dialer's option panic into an error.
func newDialer(lookuper domain.Lookuper, opts tcp.DialOptions) (d *tcp.Dialer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("invalid dial options: %v", r)
		}
	}()
	return tcp.NewDialer(lookuper, opts), nil
}

// parseStaticHosts parses host=ip entries.
func parseStaticHosts(raw []string) (map[string]string, error) {
	hosts := make(map[string]string, len(raw))
	for _, entry := range raw {
		host, ip, ok := strings.Cut(entry, "=")
		host, ip = strings.TrimSpace(host), strings.TrimSpace(ip)
		if !ok || host == "" || ip == "" {
			return nil, errors.Errorf("invalid resolve entry %q, expected host=ip", entry)
		}
		hosts[host] = ip
	}
	return hosts, nil
}

func ipNetwork(network string) string {
	switch network {
	case "tcp4":
		return "ip4"
	case "tcp6":
		return "ip6"
	}
	return "ip"
}
