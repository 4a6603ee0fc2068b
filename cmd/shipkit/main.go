package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shipkit/internal/app"
	"shipkit/internal/errors"
	localexec "shipkit/internal/execx"
	"shipkit/internal/parser"
	"shipkit/internal/scaffolder"
	"shipkit/pkg/execx"
)

// version is set at build time via ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "shipkit",
	Short:   "ShipKit - Deployment pipeline runner for web applications",
	Version: version,
	Long: `ShipKit deploys a web application to the host it runs on: it pulls the
latest source, syncs dependencies from the lock file, generates and applies
database migrations, and restarts the service - all driven by a single
manifest file.`,
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Run the complete deployment pipeline",
	Long: `Deploy executes the full pipeline in order: pull source, sync dependencies,
generate a migration, apply migrations, and restart the service. The first
failing stage aborts the run; a later invocation resumes from the failed stage.

When the manifest has an scm section, the finished deployment is also recorded
against the GitLab project.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		retainState, _ := cmd.Flags().GetBool("retain-state")
		label, _ := cmd.Flags().GetString("message")

		if err := app.Deploy(file, label, dryRun, retainState); err != nil {
			fail(err)
		}
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull the latest source for the manifest's branch",
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")

		m, err := parser.Parse(file)
		if err != nil {
			fail(err)
		}

		fmt.Printf("Pulling latest source for: %s\n", m.Metadata.Name)

		factory := app.NewProviderFactory(localexec.NewLocalRunner())
		sha, err := factory.GetPuller().Pull(context.Background(), m.Spec.Source)
		if err != nil {
			fail(err)
		}

		fmt.Printf("Source updated to %s\n", sha)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync dependencies from the committed lock file",
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")

		m, err := parser.Parse(file)
		if err != nil {
			fail(err)
		}

		fmt.Printf("Syncing dependencies for: %s\n", m.Metadata.Name)

		factory := app.NewProviderFactory(localexec.NewLocalRunner())
		installer, err := factory.GetInstaller(&m.Spec.Dependencies)
		if err != nil {
			fail(err)
		}
		if err := installer.Sync(context.Background(), m.Spec.Source.Dir); err != nil {
			fail(err)
		}

		fmt.Println("Dependencies synced")
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Generate a migration and apply all pending migrations",
	Long: `Migrate runs the manifest's migration tool twice: first to generate a new
migration script by diffing the declared schema against migration history,
then to apply every pending migration to the target database.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		label, _ := cmd.Flags().GetString("message")

		m, err := parser.Parse(file)
		if err != nil {
			fail(err)
		}
		if label == "" {
			label = m.Spec.Migrations.Label
		}

		fmt.Printf("Running migrations for: %s\n", m.Metadata.Name)

		factory := app.NewProviderFactory(localexec.NewLocalRunner())
		migrator, err := factory.GetMigrator(&m.Spec.Migrations)
		if err != nil {
			fail(err)
		}

		ctx := context.Background()
		if err := migrator.Generate(ctx, m.Spec.Source.Dir, label); err != nil {
			fail(err)
		}
		if err := migrator.Apply(ctx, m.Spec.Source.Dir); err != nil {
			fail(err)
		}

		fmt.Println("Migrations applied")
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the manifest's service",
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")

		m, err := parser.Parse(file)
		if err != nil {
			fail(err)
		}

		fmt.Printf("Restarting service: %s\n", m.Spec.Service.Name)

		factory := app.NewProviderFactory(localexec.NewLocalRunner())
		manager, err := factory.GetServiceManager(&m.Spec.Service)
		if err != nil {
			fail(err)
		}
		if err := manager.Restart(context.Background(), m.Spec.Service.Name); err != nil {
			fail(err)
		}

		fmt.Printf("Service restarted: %s\n", m.Spec.Service.Name)
	},
}

var preflightCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Verify the deploy's external collaborators without running them",
	Long: `Preflight checks everything a deploy would touch: the source directory is a
git checkout, the lock file exists, the required tools are on PATH, the Docker
daemon answers when the runtime is docker, and the GitLab token is set when
the manifest has an scm section.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")

		if err := app.Preflight(file); err != nil {
			fail(err)
		}

		fmt.Println("✅ All preflight checks passed")
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter manifest to the current directory",
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		force, _ := cmd.Flags().GetBool("force")

		if err := scaffolder.WriteStarter(file, force); err != nil {
			fail(err)
		}

		if file == "" {
			file = scaffolder.DefaultFileName
		}
		fmt.Printf("Starter manifest written to %s\n", file)
	},
}

// fail reports err through the error handler and exits with the failing
// step's exit code when the error chain carries one.
func fail(err error) {
	errors.HandleError(err)
	os.Exit(execx.ExitCode(err))
}

func init() {
	deployCmd.Flags().StringP("file", "f", scaffolder.DefaultFileName, "Path to the deploy manifest")
	deployCmd.Flags().Bool("dry-run", false, "Print the stages that would run without executing any command")
	deployCmd.Flags().Bool("retain-state", false, "Keep the state file after successful completion for auditing purposes")
	deployCmd.Flags().StringP("message", "m", "", "Label for the generated migration (overrides the manifest)")
	rootCmd.AddCommand(deployCmd)

	pullCmd.Flags().StringP("file", "f", scaffolder.DefaultFileName, "Path to the deploy manifest")
	rootCmd.AddCommand(pullCmd)

	syncCmd.Flags().StringP("file", "f", scaffolder.DefaultFileName, "Path to the deploy manifest")
	rootCmd.AddCommand(syncCmd)

	migrateCmd.Flags().StringP("file", "f", scaffolder.DefaultFileName, "Path to the deploy manifest")
	migrateCmd.Flags().StringP("message", "m", "", "Label for the generated migration (overrides the manifest)")
	rootCmd.AddCommand(migrateCmd)

	restartCmd.Flags().StringP("file", "f", scaffolder.DefaultFileName, "Path to the deploy manifest")
	rootCmd.AddCommand(restartCmd)

	preflightCmd.Flags().StringP("file", "f", scaffolder.DefaultFileName, "Path to the deploy manifest")
	rootCmd.AddCommand(preflightCmd)

	initCmd.Flags().StringP("file", "f", "", "Path to write the starter manifest (default shipkit.yaml)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing manifest")
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
