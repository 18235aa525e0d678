package build

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"text/template"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	constsPath = "github.com/bililive-go/eventdispatcher/src/consts"
	mainPath   = "./src/cmd/eventdispatcher"
)

var ldFlagsTmpl = template.Must(template.New("ldFlags").Parse(
	"{{.DebugBuildFlags}} " +
		"-X {{.ConstsPath}}.BuildTime={{.Now}} " +
		"-X {{.ConstsPath}}.AppVersion={{.AppVersion}} " +
		"-X {{.ConstsPath}}.GitHash={{.GitHash}}"))

type target struct {
	OS   string
	Arch string
	Dev  bool
}

func hostTarget(isDev bool) target {
	t := target{OS: os.Getenv("PLATFORM"), Arch: os.Getenv("ARCH"), Dev: isDev}
	if t.OS == "" {
		t.OS = runtime.GOOS
	}
	if t.Arch == "" {
		t.Arch = runtime.GOARCH
	}
	return t
}

func (t target) tags() string {
	if t.Dev {
		return "dev"
	}
	return "release"
}

func (t target) binaryName() string {
	name := "eventdispatcher-" + t.OS + "-" + t.Arch
	if t.OS == "windows" {
		name += ".exe"
	}
	return name
}

func (t target) ldFlags(now time.Time, version, hash string) string {
	debugBuildFlags := " -s -w "
	if t.Dev {
		debugBuildFlags = ""
	}
	var buf bytes.Buffer
	ldFlagsTmpl.Execute(&buf, map[string]string{
		"DebugBuildFlags": debugBuildFlags,
		"ConstsPath":      constsPath,
		"Now":             fmt.Sprintf("%d", now.Unix()),
		"AppVersion":      version,
		"GitHash":         hash,
	})
	return buf.String()
}

func BuildGoBinary(isDev bool) {
	t := hostTarget(isDev)
	gcflags := ""
	if t.Dev {
		gcflags = "all=-N -l"
	}
	fmt.Printf("building eventdispatcher (Platform: %s, Arch: %s, GoVersion: %s, Tags: %s)\n", t.OS, t.Arch, runtime.Version(), t.tags())

	cmd := exec.Command(
		"go", "build",
		"-tags", t.tags(),
		`-gcflags=`+gcflags,
		"-o", "bin/"+t.binaryName(),
		"-ldflags="+t.ldFlags(time.Now(), gitOutput("unknown", "describe", "--tags", "--always"), gitOutput("unknown", "rev-parse", "HEAD")),
		mainPath,
	)
	cmd.Env = append(
		os.Environ(),
		"GOOS="+t.OS,
		"GOARCH="+t.Arch,
		"CGO_ENABLED=0",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Print(cmd.String())
	if err := cmd.Run(); err != nil {
		fmt.Printf("Command finished with error: %v", err)
	}
}

func gitOutput(fallback string, args ...string) string {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return fallback
	}
	return strings.TrimSpace(string(out))
}
