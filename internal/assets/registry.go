package assets

// Registry lists the embedded templates written into a project.
// Update this when adding/removing managed files.

type AssetInfo struct {
	Template string // name under embedded_templates
	Path     string // project-relative target
	Mode     uint32 // non-zero for executables
}

const (
	PackageJSON     = "package.json"
	ReleaseWorkflow = ".github/workflows/release.yaml"
	GitIgnore       = ".gitignore"
	Flake           = "flake.nix"
)

// Static are written verbatim (or rendered) on every fix.
var Static = []AssetInfo{
	{Template: "nazna/releaserc.json", Path: ".releaserc.json"},
	{Template: "nazna/eslintrc.json", Path: ".eslintrc.json"},
	{Template: "nazna/npmrc", Path: ".npmrc"},
	{Template: "nazna/tsconfig.json", Path: "tsconfig.json"},
	{Template: "nazna/tsconfig.dist.json", Path: "tsconfig.dist.json"},
	{Template: "nazna/gitconfig", Path: ".nazna/.gitconfig"},
	{Template: "nazna/pre-push.hbs", Path: ".nazna/gitHooks/pre-push", Mode: 0o755},
	{Template: "nazna/envrc", Path: ".envrc"},
}

// Templates for the files that are fixed or gated rather than overwritten.
const (
	ReleaseWorkflowTemplate = "nazna/release.yaml.hbs"
	FlakeTemplate           = "nazna/flake.nix.hbs"
	CLITemplate             = "nazna/cli.js"
)

// Schema names under embedded_schemas.
const (
	PackageJSONSchema     = "package-json.schema.json"
	ReleaseWorkflowSchema = "release-workflow.schema.json"
)
