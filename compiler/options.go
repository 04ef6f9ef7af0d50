package compiler

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Options configures a Compiler. Defaults are read from a .env file the
// same way the teacher's framework/config package bootstraps application
// configuration — here narrowed to the compiler's own concerns.
type Options struct {
	// PackageName is the package clause of the emitted file.
	PackageName string
	// OutputDir is where the emitted file and its lockfile are written.
	OutputDir string
	// Validate, when true, makes Compile fail instead of silently skipping
	// a binding it cannot prove compilable.
	Validate bool
}

const (
	envPackageName = "CONTAINER_COMPILE_PACKAGE"
	envOutputDir   = "CONTAINER_COMPILE_OUTPUT_DIR"
	envValidate    = "CONTAINER_COMPILE_VALIDATE"
)

// DefaultOptions reads compiler defaults from the process environment, first
// merging in a .env file if one is present in the working directory. A
// missing .env is not an error — godotenv.Load returning an error is ignored
// here exactly as the teacher's own config bootstrap does.
func DefaultOptions() Options {
	_ = godotenv.Load()

	return Options{
		PackageName: env(envPackageName, "compiled"),
		OutputDir:   env(envOutputDir, "./compiled"),
		Validate:    envBool(envValidate, false),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
