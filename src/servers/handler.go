package servers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"math"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/bililive-go/eventdispatcher/src/configs"
	"github.com/bililive-go/eventdispatcher/src/consts"
	"github.com/bililive-go/eventdispatcher/src/instance"
	"github.com/bililive-go/eventdispatcher/src/journal"
	"github.com/bililive-go/eventdispatcher/src/notify"
	"github.com/bililive-go/eventdispatcher/src/scene"
)

const defaultEventsLimit = 50

// serializes config updates
var configUpdateLock sync.Mutex

type commonResp struct {
	ErrNo  int    `json:"err_no"`
	ErrMsg string `json:"err_msg"`
	Data   any    `json:"data,omitempty"`
}

func writeJSON(writer http.ResponseWriter, obj any) {
	writeJSONWithStatus(writer, http.StatusOK, obj)
}

func writeJSONWithStatus(writer http.ResponseWriter, status int, obj any) {
	b, err := json.Marshal(obj)
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	writer.Write(b)
}

func writeMsg(writer http.ResponseWriter, code int, msg string) {
	writeJSONWithStatus(writer, code, commonResp{
		ErrNo:  code,
		ErrMsg: msg,
	})
}

func writeErr(writer http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scene.ErrUnknownControl):
		writeMsg(writer, http.StatusNotFound, err.Error())
	case errors.Is(err, scene.ErrUnknownAction), errors.Is(err, scene.ErrOutOfRange):
		writeMsg(writer, http.StatusBadRequest, err.Error())
	default:
		writeMsg(writer, http.StatusInternalServerError, err.Error())
	}
}

// readNumber reads the "value" field of a JSON body.
func readNumber(r *http.Request) (gjson.Result, error) {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(b) {
		return gjson.Result{}, errors.New("invalid json body")
	}
	value := gjson.GetBytes(b, "value")
	if value.Type != gjson.Number {
		return gjson.Result{}, errors.New(`"value" must be a number`)
	}
	return value, nil
}

func getScene(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	writeJSON(writer, inst.Scene.(*scene.Scene).State())
}

func putValue(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	value, err := readNumber(r)
	if err != nil {
		writeMsg(writer, http.StatusBadRequest, err.Error())
		return
	}
	if math.Abs(value.Float()) > math.MaxInt32 {
		writeMsg(writer, http.StatusBadRequest, fmt.Sprintf("%s: %s", scene.ErrOutOfRange, value.Raw))
		return
	}
	if value.Float() != float64(value.Int()) {
		writeMsg(writer, http.StatusBadRequest, fmt.Sprintf("%s is not an integer", value.Raw))
		return
	}
	sc := inst.Scene.(*scene.Scene)
	if err := sc.SetValue(int(value.Int())); err != nil {
		writeErr(writer, err)
		return
	}
	writeJSON(writer, sc.State())
}

func postControlAction(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	vars := mux.Vars(r)
	var value float64
	if vars["action"] == scene.ActionChange {
		v, err := readNumber(r)
		if err != nil {
			writeMsg(writer, http.StatusBadRequest, err.Error())
			return
		}
		value = v.Float()
	}
	sc := inst.Scene.(*scene.Scene)
	if err := sc.Interact(vars["name"], vars["action"], value); err != nil {
		writeErr(writer, err)
		return
	}
	writeJSON(writer, sc.State())
}

func getEvents(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	limit := defaultEventsLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeMsg(writer, http.StatusBadRequest, "invalid limit: "+s)
			return
		}
		limit = n
	}
	writeJSON(writer, inst.Journal.(*journal.Journal).Latest(limit))
}

func getRegistry(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	writeJSON(writer, inst.Registry.Stats())
}

func getInfo(writer http.ResponseWriter, r *http.Request) {
	writeJSON(writer, consts.AppInfo)
}

func currentConfig(r *http.Request) *configs.Config {
	if c := configs.GetCurrentConfig(); c != nil {
		return c
	}
	return instance.GetInstance(r.Context()).Config
}

func getConfig(writer http.ResponseWriter, r *http.Request) {
	writeJSON(writer, currentConfig(r))
}

// putConfig saves the running config to its file.
func putConfig(writer http.ResponseWriter, r *http.Request) {
	configUpdateLock.Lock()
	defer configUpdateLock.Unlock()
	cfg := currentConfig(r)
	path, err := cfg.GetFilePath()
	if err != nil {
		writeMsg(writer, http.StatusBadRequest, err.Error())
		return
	}
	if err := cfg.Marshal(); err != nil {
		writeMsg(writer, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(writer, commonResp{Data: path})
}

func getRawConfig(writer http.ResponseWriter, r *http.Request) {
	b, err := yaml.Marshal(currentConfig(r))
	if err != nil {
		writeMsg(writer, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(writer, map[string]string{"config": string(b)})
}

// putRawConfig replaces the running config with the yaml in the "config"
// field of the body. The label template and the notify settings apply at
// once; other changes need a restart. The result is saved when the config
// came from a file.
func putRawConfig(writer http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	b, err := io.ReadAll(r.Body)
	if err != nil {
		writeMsg(writer, http.StatusBadRequest, err.Error())
		return
	}
	raw := gjson.GetBytes(b, "config")
	if raw.Type != gjson.String {
		writeMsg(writer, http.StatusBadRequest, `"config" must be a yaml string`)
		return
	}
	newConfig, err := configs.NewConfigWithBytes([]byte(raw.String()))
	if err != nil {
		writeMsg(writer, http.StatusBadRequest, err.Error())
		return
	}
	if err := newConfig.Verify(); err != nil {
		writeMsg(writer, http.StatusBadRequest, err.Error())
		return
	}

	configUpdateLock.Lock()
	defer configUpdateLock.Unlock()
	oldConfig := currentConfig(r)
	newConfig.File = oldConfig.File

	if sc, ok := inst.Scene.(*scene.Scene); ok {
		if err := sc.SetLabelTemplate(newConfig.Scene.LabelTmpl); err != nil {
			writeMsg(writer, http.StatusBadRequest, err.Error())
			return
		}
	}
	if n, ok := inst.Notifier.(*notify.Notifier); ok {
		if err := n.Reconfigure(newConfig.Notify); err != nil {
			writeMsg(writer, http.StatusBadRequest, err.Error())
			return
		}
	}
	configs.SetCurrentConfig(newConfig)
	inst.Config = newConfig
	if newConfig.File != "" {
		if err := newConfig.Marshal(); err != nil {
			writeMsg(writer, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(writer, newConfig)
}
