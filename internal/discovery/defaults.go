package discovery

// DefaultExcludePatterns are paths that are never useful for API extraction.
// They apply in every run, regardless of user include patterns.
var DefaultExcludePatterns = []string{
	// Version control
	".git/**",
	".svn/**",
	".hg/**",

	// Dependencies
	"node_modules/**",
	"vendor/**",
	"bower_components/**",

	// Build output
	"dist/**",
	"build/**",
	"out/**",
	"target/**",
	"obj/**",
	"__pycache__/**",
	"*.min.js",
	"*.min.css",

	// Binary and media extensions
	"*.exe", "*.dll", "*.so", "*.dylib", "*.o", "*.a",
	"*.class", "*.jar", "*.war", "*.pyc", "*.pyo",
	"*.zip", "*.tar", "*.gz", "*.tgz", "*.rar", "*.7z",
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.ico", "*.webp",
	"*.woff", "*.woff2", "*.ttf", "*.eot", "*.otf",
	"*.mp3", "*.mp4", "*.avi", "*.mov", "*.wav",
	"*.pdf", "*.sqlite", "*.db",

	// Lockfiles
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"Gemfile.lock",
	"poetry.lock",
	"Cargo.lock",
	"composer.lock",
	"go.sum",

	// Caches, IDE state, OS files
	".cache/**",
	".next/**",
	".nuxt/**",
	".idea/**",
	".vscode/**",
	".DS_Store",
	"*.log",
}

// DefaultTestExcludePatterns exclude test files by convention. Unlike the
// hard exclusions above, these are dropped for any path that matches a
// user-supplied include pattern, so "--include **/*_test.go" works without a
// dedicated flag.
var DefaultTestExcludePatterns = []string{
	"**/*_test.go",
	"**/*.test.ts",
	"**/*.test.tsx",
	"**/*.test.js",
	"**/*.spec.ts",
	"**/*.spec.js",
	"**/test_*.py",
	"**/*_test.py",
	"**/tests/**",
	"**/__tests__/**",
	"**/spec/**",
}

// skipDirNames are directory basenames that are never descended into.
// Checking the name avoids walking huge trees just to discard them.
var skipDirNames = map[string]struct{}{
	".git":          {},
	".svn":          {},
	".hg":           {},
	"node_modules":  {},
	"__pycache__":   {},
	"vendor":        {},
	".idea":         {},
	".vscode":       {},
	".cache":        {},
	".next":         {},
	".nuxt":         {},
	".venv":         {},
	"venv":          {},
}
