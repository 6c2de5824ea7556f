// Command mdserve serves a directory (or bucket) of Markdown documents as HTML pages.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/advdv/mdserve/mdapp"
)

func main() {
	flags := pflag.NewFlagSet("mdserve", pflag.ExitOnError)
	configFile := flags.StringP("config", "c", "", "YAML configuration document (overrides MDSERVE_CONFIG_FILE)")
	root := flags.StringP("root", "r", "", "document root (overrides MDSERVE_DOCUMENT_ROOT)")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: mdserve [flags]\n\n%s", flags.FlagUsages())
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatal(err)
	}

	if _, err := maxprocs.Set(maxprocs.Logger(log.Printf)); err != nil {
		log.Printf("mdserve: failed to set GOMAXPROCS: %s", err)
	}

	mdapp.NewApp(
		mdapp.WithConfigFile(*configFile),
		mdapp.WithDocumentRoot(*root),
	).Run()
}
