package localfs

import (
	"flag"
	"fmt"

	"github.com/primus-labs/zktls-go/storage"
	"github.com/primus-labs/zktls-go/storage/casregistry"
)

var flagDir string

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "localfs",
		Description: "Immutable on-disk archive (directory of CID-named files)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagDir, "localfs-dir", "", "Archive directory for the localfs backend")
		},
		Open: func() (storage.CAS, func() error, error) {
			if flagDir == "" {
				return nil, nil, fmt.Errorf("missing --localfs-dir")
			}
			cas, err := New(flagDir)
			return cas, nil, err
		},
	})
}
