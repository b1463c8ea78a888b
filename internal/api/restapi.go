package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/khoh/go-quizrunner/internal/common"
	"go.uber.org/zap"
)

// QuizApp is the surface the REST API drives - implemented by the hub.
type QuizApp interface {
	GetBanks() []common.QuizBank
	GetBank(int) (common.QuizBank, error)
	DeleteBank(int)
	AddBank(common.QuizBank) (common.QuizBank, error)
	UpdateBank(common.QuizBank) error
	GetRuns() []common.RunSummary
	GetRun(string) (common.RunSummary, error)
	DeleteRun(string)
}

type RestApi struct {
	hub QuizApp
	log *zap.SugaredLogger
}

func InitRestApi(hub QuizApp, log *zap.SugaredLogger) *RestApi {
	return &RestApi{hub: hub, log: log}
}

func (api *RestApi) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if strings.HasPrefix(path, "/api/bank") {
		api.Bank(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/run") {
		api.Run(w, r)
		return
	}

	http.Error(w, "not found", http.StatusNotFound)
}

func (api *RestApi) Bank(w http.ResponseWriter, r *http.Request) {
	// export
	if r.Method == http.MethodGet {
		last := lastPart(r.URL.Path)
		id, err := strconv.Atoi(last)
		if err != nil {
			allBanks := api.hub.GetBanks()
			w.Header().Add("Content-Type", "application/json")
			enc := json.NewEncoder(w)
			if err := enc.Encode(allBanks); err != nil {
				api.log.Warnf("error encoding slice of banks to JSON: %v", err)
			}
			return
		}

		bank, err := api.hub.GetBank(id)
		if err != nil {
			streamResponse(w, false, fmt.Sprintf("bank %d does not exist", id))
			return
		}

		w.Header().Add("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		if err := enc.Encode(bank); err != nil {
			streamResponse(w, false, fmt.Sprintf("error encoding bank to JSON: %v", err))
		}
		return
	}

	if r.Method == http.MethodDelete {
		last := lastPart(r.URL.Path)
		id, err := strconv.Atoi(last)
		if err != nil {
			streamResponse(w, false, fmt.Sprintf("invalid id %s: %v", last, err))
			return
		}
		api.hub.DeleteBank(id)
		streamResponse(w, true, "")
		return
	}

	// import
	defer r.Body.Close()

	// check to see if it's bulk import
	if strings.HasSuffix(r.URL.Path, "/bulk") {
		toImport, err := common.UnmarshalBanks(r.Body)
		if err != nil {
			streamResponse(w, false, fmt.Sprintf("error parsing JSON: %v", err))
			return
		}
		for _, b := range toImport {
			if _, err := api.hub.AddBank(b); err != nil {
				streamResponse(w, false, fmt.Sprintf("error adding bank: %v", err))
				continue
			}
		}
		streamResponse(w, true, "")
		return
	}

	// we're importing a single bank
	toImport, err := common.UnmarshalBank(r.Body)
	if err != nil {
		streamResponse(w, false, fmt.Sprintf("error parsing JSON: %v", err))
		return
	}

	if toImport.Id == 0 {
		// no ID, so treat this as an add operation
		if _, err := api.hub.AddBank(toImport); err != nil {
			streamResponse(w, false, fmt.Sprintf("error adding bank: %v", err))
			return
		}
		streamResponse(w, true, "")
		return
	}

	// update
	if err := api.hub.UpdateBank(toImport); err != nil {
		streamResponse(w, false, fmt.Sprintf("error updating bank: %v", err))
		return
	}
	streamResponse(w, true, "")
}

func (api *RestApi) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if strings.HasSuffix(r.URL.Path, "/run") {
			// get all runs
			all := api.hub.GetRuns()
			w.Header().Add("Content-Type", "application/json")
			enc := json.NewEncoder(w)
			if err := enc.Encode(all); err != nil {
				api.log.Warnf("error encoding slice of runs to JSON: %v", err)
			}
			return
		}

		id := lastPart(r.URL.Path)
		if len(id) == 0 {
			streamResponse(w, false, "invalid player id")
			return
		}
		summary, err := api.hub.GetRun(id)
		if err != nil {
			streamResponse(w, false, fmt.Sprintf("no run for player %s", id))
			return
		}
		enc := json.NewEncoder(w)
		if err := enc.Encode(summary); err != nil {
			api.log.Warnf("error encoding run for player %s: %v", id, err)
		}
		return
	}

	if r.Method == http.MethodDelete {
		id := lastPart(r.URL.Path)
		if len(id) == 0 {
			streamResponse(w, false, "invalid player id")
			return
		}
		api.hub.DeleteRun(id)
		streamResponse(w, true, "")
		return
	}

	http.Error(w, "unsupported method", http.StatusNotImplemented)
}

// returns the part beyond the last slash in the URL
func lastPart(s string) string {
	last := strings.LastIndex(s, "/")
	if last == -1 {
		return s
	}
	return s[last+1:]
}

func streamResponse(w io.Writer, success bool, errMsg string) {
	resp := struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{
		Success: success,
		Error:   errMsg,
	}
	json.NewEncoder(w).Encode(&resp)
}
