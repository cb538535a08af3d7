package cmd

import (
	"os"
	"sort"

	"github.com/clipharbor/clipharbor/color"
	"github.com/clipharbor/clipharbor/config"
	"github.com/clipharbor/clipharbor/style"
	"github.com/clipharbor/clipharbor/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Show only variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Show only variables that are unset")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVar pairs an environment variable with the config key it overrides.
type envVar struct {
	name, key string
}

func envVars() []envVar {
	vars := lo.Map(config.EnvExposed, func(k string, _ int) envVar {
		f := config.Default[k]
		return envVar{name: f.Env(), key: k}
	})
	vars = append(vars, envVar{name: where.EnvConfigPath})

	sort.Slice(vars, func(i, j int) bool {
		return vars[i].name < vars[j].name
	})
	return vars
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables clipharbor reads",
	Long:  "List every supported environment variable, its current value and the config key it overrides.",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)

			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.name))
			cmd.Print("=")

			if present {
				cmd.Print(style.Fg(color.Green)(value))
			} else {
				cmd.Print(style.Fg(color.Red)("unset"))
			}

			if v.key != "" {
				cmd.Print(" " + style.Faint("("+v.key+")"))
			}
			cmd.Println()
		}
	},
}
