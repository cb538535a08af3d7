package cmd

import (
	"encoding/json"
	"path/filepath"
	"reflect"

	"github.com/clipharbor/clipharbor/pipeline"
	"github.com/clipharbor/clipharbor/selector"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolP("candidates", "c", false, "Generate the schema of the discover --json output instead")
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the machine-readable job report",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return filepath.Base(t.PkgPath()) + "." + t.Name()
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("candidates")):
			schema = reflector.Reflect([]selector.Ranked{})
		default:
			schema = reflector.Reflect(&pipeline.Result{})
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
