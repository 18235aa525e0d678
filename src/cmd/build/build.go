package build

import (
	"os"
	"os/exec"

	"github.com/alecthomas/kingpin"
	log "github.com/sirupsen/logrus"
)

func RunCmd() int {
	app := kingpin.New("Build tool", "eventdispatcher Build tool.")
	app.Command("dev", "Build for development.").Action(func(*kingpin.ParseContext) error {
		BuildGoBinary(true)
		return nil
	})
	app.Command("release", "Build for release.").Action(func(*kingpin.ParseContext) error {
		BuildGoBinary(false)
		return nil
	})
	app.Command("test", "Run tests.").Action(func(*kingpin.ParseContext) error {
		return runGo("test", "-race", "./src/...")
	})
	app.Command("generate", "Run go generate.").Action(func(*kingpin.ParseContext) error {
		return runGo("generate", "./...")
	})
	if _, err := app.Parse(os.Args[1:]); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func runGo(args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Print(cmd.String())
	return cmd.Run()
}
