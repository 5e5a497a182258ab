// Command precompilectl inspects and drives the precompile families from
// the command line.
//
// Usage:
//
//	precompilectl [--config gateway.yaml] selectors
//	precompilectl gas <family> <hex calldata>
//	precompilectl check <family> <hex calldata>
//	precompilectl exec <family> <hex calldata>
//	precompilectl verify <family> <hex calldata>
//
// Families are anemoi, anonymous, mental-poker-verify and mental-poker-exec.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/eth2030/zkprecompiles/config"
	"github.com/eth2030/zkprecompiles/core/vm"
	"github.com/eth2030/zkprecompiles/precompiles"
)

// Build-time version info, overridable with ldflags.
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run is the actual entry point, returning an exit code. args includes the
// program name so it can be tested in isolation.
func run(args []string, stdout, stderr io.Writer) int {
	if err := newApp(stdout, stderr).Run(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "precompilectl",
		Usage:     "inspect and run zk precompile calls",
		Version:   fmt.Sprintf("%s (commit %s)", version, commit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "gateway YAML config",
				EnvVars: []string{"ZKPRECOMPILES_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "selectors",
				Usage:  "list the operation table of every family",
				Action: selectorsAction,
			},
			{
				Name:      "gas",
				Usage:     "price a call",
				ArgsUsage: "<family> <hex calldata>",
				Action:    gasAction,
			},
			{
				Name:      "check",
				Usage:     "decode a call without running it",
				ArgsUsage: "<family> <hex calldata>",
				Action:    checkAction,
			},
			{
				Name:      "exec",
				Usage:     "run a computation call",
				ArgsUsage: "<family> <hex calldata>",
				Action:    execAction,
			},
			{
				Name:      "verify",
				Usage:     "run a verification call",
				ArgsUsage: "<family> <hex calldata>",
				Action:    verifyAction,
			},
		},
	}
}

func loadFamilies(c *cli.Context) (vm.Families, error) {
	path := c.String("config")
	if path == "" {
		return vm.DefaultFamilies(), nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return vm.Families{}, err
	}
	cfg.Apply()
	return cfg.Families(config.Backends{})
}

// family is the common surface of the four family types.
type family interface {
	Name() string
	Gas(data []byte) (uint64, error)
	Check(data []byte) error
}

// callArgs resolves the <family> <hex calldata> arguments.
func callArgs(c *cli.Context) (family, []byte, error) {
	if c.NArg() != 2 {
		return nil, nil, errors.Errorf("expected <family> <hex calldata>, got %d arguments", c.NArg())
	}
	fams, err := loadFamilies(c)
	if err != nil {
		return nil, nil, err
	}
	var f any
	switch name := c.Args().Get(0); name {
	case "anemoi":
		f = fams.Anemoi
	case "anonymous":
		f = fams.Anonymous
	case "mental-poker-verify":
		f = fams.PokerVerify
	case "mental-poker-exec":
		f = fams.PokerExec
	default:
		return nil, nil, errors.Errorf("unknown family %q", name)
	}
	fam, ok := f.(family)
	if !ok {
		return nil, nil, errors.Errorf("family %q cannot decode calls", c.Args().Get(0))
	}
	data, err := parseHex(c.Args().Get(1))
	if err != nil {
		return nil, nil, err
	}
	return fam, data, nil
}

func parseHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	return b, errors.Wrap(err, "calldata")
}

func printStatus(c *cli.Context, err error) {
	code := precompiles.CodeOf(err)
	fmt.Fprintf(c.App.Writer, "status: %d (%s)\n", uint8(code), code)
	if err != nil {
		fmt.Fprintf(c.App.Writer, "detail: %v\n", err)
	}
}

func selectorsAction(c *cli.Context) error {
	fams, err := loadFamilies(c)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FAMILY\tOPERATION\tSELECTOR\tSIGNATURE")
	for _, op := range fams.Operations() {
		sig := op.Signature
		if op.Legacy {
			sig += " (legacy code)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", op.Family, op.Name, op.Selector, sig)
	}
	return w.Flush()
}

func gasAction(c *cli.Context) error {
	fam, data, err := callArgs(c)
	if err != nil {
		return err
	}
	gas, err := fam.Gas(data)
	if err != nil {
		printStatus(c, err)
		return nil
	}
	fmt.Fprintf(c.App.Writer, "%d\n", gas)
	return nil
}

func checkAction(c *cli.Context) error {
	fam, data, err := callArgs(c)
	if err != nil {
		return err
	}
	printStatus(c, fam.Check(data))
	return nil
}

func execAction(c *cli.Context) error {
	fam, data, err := callArgs(c)
	if err != nil {
		return err
	}
	exec, ok := fam.(precompiles.Executor)
	if !ok {
		return errors.Errorf("%s is a verify family", fam.Name())
	}
	res, err := exec.Exec(data)
	printStatus(c, err)
	if err == nil {
		fmt.Fprintf(c.App.Writer, "result: %s\n", hexutil.Encode(res))
	}
	return nil
}

func verifyAction(c *cli.Context) error {
	fam, data, err := callArgs(c)
	if err != nil {
		return err
	}
	v, ok := fam.(precompiles.Verifier)
	if !ok {
		return errors.Errorf("%s is an exec family", fam.Name())
	}
	printStatus(c, v.Verify(data))
	return nil
}
