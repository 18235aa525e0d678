package consts

import (
	"fmt"
	"os"
	"runtime"
)

const (
	AppName = "EventDispatcher"
)

// names of the emitters of the counter scene, as used in config and api
const (
	EmitterValue   = "value"
	EmitterStepper = "stepper"
	EmitterSlider  = "slider"
	EmitterReset   = "reset"
)

var EmitterNames = []string{EmitterValue, EmitterStepper, EmitterSlider, EmitterReset}

func IsEmitterName(name string) bool {
	for _, n := range EmitterNames {
		if n == name {
			return true
		}
	}
	return false
}

type Info struct {
	AppName    string `json:"app_name"`
	AppVersion string `json:"app_version"`
	BuildTime  string `json:"build_time"`
	GitHash    string `json:"git_hash"`
	Pid        int    `json:"pid"`
	Platform   string `json:"platform"`
	GoVersion  string `json:"go_version"`
	IsDocker   string `json:"is_docker"`
}

var (
	BuildTime  string
	AppVersion string
	GitHash    string
	AppInfo    = Info{
		AppName:    AppName,
		AppVersion: AppVersion,
		BuildTime:  BuildTime,
		GitHash:    GitHash,
		Pid:        os.Getpid(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		GoVersion:  runtime.Version(),
		IsDocker:   os.Getenv("IS_DOCKER"),
	}
)
