//go:build ignore

// build.go - fundingdash build script
// Usage: go run build.go [-target=TARGET] [-version=VERSION] [-v]
// Targets: build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	module   = "fundingdash"
	mainPkg  = "./cmd/fundingdash"
	distDir  = "dist"
	coverOut = "coverage.out"
)

var (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	Version string
}

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	version := flag.String("version", "dev", "Version stamped into the binary")
	flag.Parse()

	printHeader()
	start := time.Now()

	ctx := &BuildContext{Verbose: *verbose, Version: *version}

	switch *target {
	case "build":
		buildBinary(ctx, runtime.GOOS, runtime.GOARCH)
	case "test":
		runTests(ctx)
	case "clean":
		clean()
	case "release":
		buildRelease(ctx)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(start).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "        fundingdash - Build System         " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func ldflags(ctx *BuildContext) string {
	return fmt.Sprintf("-s -w -X %s/internal/app.Version=%s -X %s/internal/app.BuildTime=%s",
		module, ctx.Version, module, time.Now().UTC().Format(time.RFC3339))
}

func buildBinary(ctx *BuildContext, goos, goarch string) {
	name := module
	if goos == "windows" {
		name += ".exe"
	}
	out := filepath.Join(distDir, goos+"_"+goarch, name)
	printInfo(fmt.Sprintf("Building %s for %s/%s...", name, goos, goarch))

	args := []string{"build", "-trimpath", "-ldflags", ldflags(ctx), "-o", out, mainPkg}
	if ctx.Verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "GOOS="+goos, "GOARCH="+goarch, "CGO_ENABLED=0")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if ctx.Verbose {
		fmt.Printf("go %s\n", strings.Join(args, " "))
	}
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", out, err))
		os.Exit(1)
	}

	if info, err := os.Stat(out); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", out, float64(info.Size())/1024/1024))
	}
}

func buildRelease(ctx *BuildContext) {
	for _, platform := range [][2]string{
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"darwin", "arm64"},
		{"windows", "amd64"},
	} {
		buildBinary(ctx, platform[0], platform[1])
	}
}

func runTests(ctx *BuildContext) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race", "-coverprofile=" + coverOut}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func clean() {
	printInfo("Cleaning build artifacts...")
	for _, path := range []string{distDir, coverOut, "logs"} {
		if err := os.RemoveAll(path); err != nil {
			printError(fmt.Sprintf("Failed to remove %s: %v", path, err))
		}
	}
	printSuccess("Build artifacts cleaned")
}

func showHelp() {
	fmt.Println("Usage: go run build.go -target=TARGET")
	fmt.Println()
	fmt.Println("  build    build for the host platform into dist/")
	fmt.Println("  test     run go test -race with coverage")
	fmt.Println("  clean    remove dist/, coverage and logs")
	fmt.Println("  release  cross-compile the release platforms")
}
