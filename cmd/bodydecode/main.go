package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sjianjun/charsetconv"
	"github.com/sjianjun/charsetconv/bson"
	codecjson "github.com/sjianjun/charsetconv/json"
	"github.com/sjianjun/charsetconv/internal/config"
	"github.com/sjianjun/charsetconv/msgpack"
	"github.com/sjianjun/charsetconv/yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Build information injected at build time
	version = "dev"
	commit  = "unknown"
)

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"content-type": "content_type",
	"codec":        "codec",
	"meta-limit":   "meta_scan_limit",
	"sniffer":      "sniffer",
	"timeout":      "timeout",
	"log-level":    "log_level",
	"log-format":   "log_format",
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "bodydecode [file | url | -]",
		Short: "Decode an HTTP response body to UTF-8 text",
		Long: `bodydecode reads a body from a file, standard input or an http(s) URL and
prints it as UTF-8.

The charset is taken from the Content-Type header, then from a <meta>
declaration near the start of the document, and finally guessed from the
bytes themselves.

With --codec set to json, yaml, msgpack or bson the body is unmarshaled with
that codec and printed as indented JSON.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.InitConfig(cfgFile); err != nil {
				return err
			}
			for flag, key := range flagKeys {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return fmt.Errorf("binding --%s: %w", flag, err)
				}
			}
			return nil
		},
		RunE: runDecode,
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "path to configuration file (YAML format)")
	flags.String("content-type", "", "Content-Type to assume, overriding the response header")
	flags.String("codec", "text", "output mode: text, json, yaml, msgpack or bson")
	flags.Int("meta-limit", charsetconv.DefaultMetaScanLimit, "leading bytes searched for <meta> charset declarations")
	flags.String("sniffer", "text", "charset detector: text or html")
	flags.Duration("timeout", 0, "HTTP fetch timeout (0 uses the configured value)")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", "text", "log format: text or json")
	return cmd
}

func runDecode(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	body, contentType, err := readSource(ctx, cmd.InOrStdin(), source, cfg)
	if err != nil {
		log.WithError(err).WithField("source", source).Error("Failed to read body")
		return err
	}
	if cfg.ContentType != "" {
		contentType = cfg.ContentType
	}

	log.WithFields(logrus.Fields{
		"source":       source,
		"content_type": contentType,
		"size":         len(body),
	}).Debug("Body read")

	opts, err := cfg.DecoderOptions()
	if err != nil {
		return err
	}
	decoder := charsetconv.NewDecoder(opts...)

	if !cfg.Structured() {
		res, err := decoder.Resolve(ctx, body, contentType)
		if err != nil {
			log.WithError(err).Error("Failed to decode body")
			return err
		}
		log.WithFields(logrus.Fields{
			"stage":    res.Stage,
			"label":    res.Label,
			"encoding": res.Encoding,
		}).Info("Charset resolved")
		_, err = io.WriteString(cmd.OutOrStdout(), res.Text)
		return err
	}

	codec, err := codecByName(cfg.Codec)
	if err != nil {
		return err
	}
	converter := charsetconv.NewConverter(codec, charsetconv.WithDecoder(decoder))
	out, err := charsetconv.Convert[map[string]any](ctx, converter, body, contentType)
	if err != nil {
		log.WithError(err).WithField("codec", cfg.Codec).Error("Failed to convert body")
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(*out)
}

func newLogger(w io.Writer, cfg *config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}

// readSource returns the body and, for URLs, the response Content-Type.
func readSource(ctx context.Context, stdin io.Reader, source string, cfg *config.Config) ([]byte, string, error) {
	switch {
	case source == "-":
		body, err := io.ReadAll(stdin)
		return body, "", err
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetch(ctx, source, cfg)
	default:
		body, err := os.ReadFile(source)
		return body, "", err
	}
}

func fetch(ctx context.Context, url string, cfg *config.Config) ([]byte, string, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", charsetconv.ErrReadBody, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func codecByName(name string) (charsetconv.Codec, error) {
	switch name {
	case "json":
		return codecjson.New(), nil
	case "yaml":
		return yaml.New(), nil
	case "msgpack":
		return msgpack.New(), nil
	case "bson":
		return bson.New(), nil
	case "xml":
		// Arbitrary XML has no map form.
		return nil, errors.New("xml bodies cannot be rendered as JSON; use codec text")
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
