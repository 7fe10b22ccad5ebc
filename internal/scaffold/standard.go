package scaffold

import "github.com/fulmenhq/nazna/pkg/config"

// ToolBinary is the executable name the generated scripts call.
const ToolBinary = "nazna"

// DevDependencies are the tool versions every project is pinned to.
func DevDependencies() map[string]string {
	return map[string]string{
		"@typescript-eslint/eslint-plugin": "^5.59.0",
		"@typescript-eslint/parser":        "^5.59.0",
		"eslint":                           "^8.40.0",
		"eslint-config-prettier":           "^8.8.0",
		"eslint-plugin-fp-ts":              "^0.3.2",
		"eslint-plugin-functional":         "^5.0.8",
		"eslint-plugin-only-warn":          "^1.1.0",
		"eslint-plugin-prettier":           "^4.2.1",
		"eslint-plugin-simple-import-sort": "^10.0.0",
		"eslint-plugin-unused-imports":     "^2.0.0",
		"prettier":                         "^2.8.8",
		"semantic-release":                 "^21.0.2",
		"typescript":                       "^5.0.4",
		"vite":                             "^4.3.5",
		"vitest":                           "^0.31.0",
	}
}

// Scripts are the package.json scripts every project exposes. They call the
// configured package manager.
func Scripts(cfg *config.Config) map[string]string {
	run := cfg.RunCommand()
	return map[string]string{
		"build":    "vite build && tsc -p tsconfig.dist.json",
		"fix":      "eslint --fix . && " + ToolBinary + " fix",
		"lint":     "eslint --max-warnings=0 .",
		"pre-push": run + " lint && " + run + " test",
		"test":     "vitest run",
	}
}

// RequiredSteps must appear, in this order, in the release job.
var RequiredSteps = []string{"checkout", "install dependencies", "lint", "test", "build", "release"}

// IgnorePatterns are always present in .gitignore.
var IgnorePatterns = []string{"node_modules", "dist", ".direnv"}
