package ipfs

import (
	"flag"
	"os"

	"github.com/primus-labs/zktls-go/storage"
	"github.com/primus-labs/zktls-go/storage/casregistry"
)

var (
	flagBin  string
	flagPath string
	flagPin  bool
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "ipfs",
		Description: "Local Kubo CLI CAS (offline block store)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagBin, "ipfs-bin", "", "Path to the ipfs binary (for --backend=ipfs; default \"ipfs\")")
			fs.StringVar(&flagPath, "ipfs-path", "", "IPFS repo directory, sets IPFS_PATH (for --backend=ipfs)")
			fs.BoolVar(&flagPin, "ipfs-pin", false, "Pin blocks after Put (for --backend=ipfs)")
		},
		Open: func() (storage.CAS, func() error, error) {
			opts := Options{Bin: flagBin, Pin: flagPin}
			if flagPath != "" {
				opts.Env = append(os.Environ(), "IPFS_PATH="+flagPath)
			}
			return New(opts), nil, nil
		},
	})
}
