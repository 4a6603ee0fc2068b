package manifest

// Manifest is the root object that holds the entire configuration for a shipkit
// deployment. It's populated by parsing the user's shipkit.yaml file.
type Manifest struct {
	APIVersion string   `yaml:"apiVersion" validate:"required"`
	Kind       string   `yaml:"kind" validate:"required,eq=Manifest"`
	Metadata   Metadata `yaml:"metadata" validate:"required"`
	Spec       Spec     `yaml:"spec" validate:"required"`
}

// Metadata contains application-level metadata.
type Metadata struct {
	Name        string            `yaml:"name" validate:"required"`
	Description string            `yaml:"description"`
	Labels      map[string]string `yaml:"labels,omitempty"`
}

// Spec contains the detailed specification of the deployment pipeline.
type Spec struct {
	Source       Source       `yaml:"source" validate:"required"`
	Dependencies Dependencies `yaml:"dependencies" validate:"required"`
	Migrations   Migrations   `yaml:"migrations" validate:"required"`
	Service      Service      `yaml:"service" validate:"required"`
	SCM          *SCMProvider `yaml:"scm,omitempty" validate:"omitempty"`
}

// Source describes where the application source lives and what to pull.
type Source struct {
	Dir    string `yaml:"dir" validate:"required"`
	Remote string `yaml:"remote" validate:"required"`
	Branch string `yaml:"branch" validate:"required"`
}

// Dependencies configures the locked dependency synchronization step.
type Dependencies struct {
	Manager  string `yaml:"manager" validate:"required,oneof=pipenv pip"`
	LockFile string `yaml:"lockFile"`
}

// Migrations configures the schema migration tool invoked twice per deploy:
// once to generate a migration script, once to apply pending migrations.
type Migrations struct {
	Tool  string            `yaml:"tool" validate:"required,oneof=flask alembic"`
	Label string            `yaml:"label"`
	Env   map[string]string `yaml:"env,omitempty"`
}

// Service identifies the long-running process restarted at the end of a deploy.
type Service struct {
	Runtime string `yaml:"runtime" validate:"required,oneof=systemd docker"`
	Name    string `yaml:"name" validate:"required"`
	Sudo    bool   `yaml:"sudo"`
}

// SCMProvider configures the optional deployment record pushed to the SCM
// after a successful deploy.
type SCMProvider struct {
	Provider    string `yaml:"provider" validate:"required,oneof=gitlab"`
	URL         string `yaml:"url" validate:"required,url"`
	Project     string `yaml:"project" validate:"required"`
	Environment string `yaml:"environment" validate:"required"`
}
