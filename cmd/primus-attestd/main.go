package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"google.golang.org/grpc"
	"gopkg.in/yaml.v3"

	"github.com/primus-labs/zktls-go/compliance"
	"github.com/primus-labs/zktls-go/grpcattest"
	"github.com/primus-labs/zktls-go/registry"
	"github.com/primus-labs/zktls-go/storage"
	"github.com/primus-labs/zktls-go/storage/casconfig"
	"github.com/primus-labs/zktls-go/storage/casregistry"
	"github.com/primus-labs/zktls-go/trustfile"
	"github.com/primus-labs/zktls-go/verifier"

	_ "github.com/primus-labs/zktls-go/storage/ipfs"
	_ "github.com/primus-labs/zktls-go/storage/localfs"
)

// fileConfig mirrors the daemon flags. Flags set on the command line take
// precedence over file values.
type fileConfig struct {
	Listen      string `yaml:"listen"`
	Backend     string `yaml:"backend"`
	Trustfile   string `yaml:"trustfile"`
	CASConfig   string `yaml:"cas_config"`
	Mode        string `yaml:"mode"`
	MaxMsgBytes int    `yaml:"max_msg_bytes"`
}

func main() {
	fs := flag.NewFlagSet("primus-attestd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7777", "listen address")
	backend := fs.String("backend", "localfs", "CAS backend name")
	trustPath := fs.String("trustfile", "", "trusted attestor manifest")
	casConfigPath := fs.String("cas-config", "", "JSON multi-backend config file")
	configPath := fs.String("config", "", "YAML daemon config file")
	mode := fs.String("mode", "permissive", "Compliance mode: permissive|strict")
	maxMsgBytes := fs.Int("max-msg-bytes", 0, "Max gRPC message size in bytes (0 = library default)")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")

	casregistry.RegisterFlags(fs, casregistry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	if *configPath != "" {
		var cfg fileConfig
		b, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		dec := yaml.NewDecoder(strings.NewReader(string(b)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			fmt.Fprintf(os.Stderr, "config %s: %v\n", *configPath, err)
			os.Exit(2)
		}

		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["listen"] && cfg.Listen != "" {
			*listen = cfg.Listen
		}
		if !set["backend"] && cfg.Backend != "" {
			*backend = cfg.Backend
		}
		if !set["trustfile"] && cfg.Trustfile != "" {
			*trustPath = cfg.Trustfile
		}
		if !set["cas-config"] && cfg.CASConfig != "" {
			*casConfigPath = cfg.CASConfig
		}
		if !set["mode"] && cfg.Mode != "" {
			*mode = cfg.Mode
		}
		if !set["max-msg-bytes"] && cfg.MaxMsgBytes != 0 {
			*maxMsgBytes = cfg.MaxMsgBytes
		}
	}

	if *trustPath == "" {
		fmt.Fprintln(os.Stderr, "missing -trustfile")
		os.Exit(2)
	}

	var vmode compliance.Mode
	switch strings.ToLower(strings.TrimSpace(*mode)) {
	case "permissive":
		vmode = compliance.Permissive
	case "strict":
		vmode = compliance.Strict
	default:
		fmt.Fprintf(os.Stderr, "invalid -mode %q (want permissive or strict)\n", *mode)
		os.Exit(2)
	}

	tb, err := os.ReadFile(*trustPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	tf, err := trustfile.Parse(tb)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	reg, err := tf.Registry(registry.Identity("primus-attestd"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var cas storage.CAS
	var closeFn func() error
	if *casConfigPath != "" {
		cfg, err := casconfig.LoadFile(*casConfigPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cas, closeFn, err = cfg.Open(casregistry.UsageDaemon, "")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	} else {
		cas, closeFn, err = casregistry.Open(*backend, casregistry.UsageDaemon)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	if closeFn != nil {
		defer closeFn()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	var opts []grpc.ServerOption
	if *maxMsgBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(*maxMsgBytes), grpc.MaxSendMsgSize(*maxMsgBytes))
	}
	s := grpc.NewServer(opts...)
	grpcattest.RegisterAttestServer(s, &grpcattest.Server{
		Registry: reg,
		CAS:      cas,
		Verifier: &verifier.Verifier{Mode: vmode},
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		fmt.Fprintln(os.Stderr, "primus-attestd shutting down")
		s.GracefulStop()
	}()

	fmt.Fprintf(os.Stderr, "primus-attestd listening on %s (backend=%s, attestors=%d, mode=%s)\n",
		lis.Addr().String(), *backend, reg.Len(), strings.ToLower(strings.TrimSpace(*mode)))
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
