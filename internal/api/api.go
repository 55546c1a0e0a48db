// Package api exposes the HTTP endpoint the ESP32 posts its readings
// to. The handler's only jobs are to drop the batch into the ingest
// mailbox and to answer with the current command state so the device
// can converge to it; all aggregation happens in the tick loop.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/luki/thermo/internal/ingest"
	"github.com/luki/thermo/internal/sensor"
)

// Server handles device traffic.
type Server struct {
	mailbox  *ingest.Mailbox
	commands *ingest.Commands
	log      *slog.Logger
	now      func() time.Time
}

// NewServer wires the handler to the shared ingest state. The clock is
// injectable for tests; pass nil for time.Now.
func NewServer(mailbox *ingest.Mailbox, commands *ingest.Commands, log *slog.Logger, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{mailbox: mailbox, commands: commands, log: log, now: now}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHome).Methods("GET")
	r.HandleFunc("/test", s.handleTest).Methods("GET")
	r.HandleFunc("/data", s.handleData).Methods("POST")
	return r
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ESP32 Temperature Server is running!"))
}

func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Server is running!",
		"timestamp": s.now().Format(time.RFC3339),
	})
}

// dataRequest is the device's post body. Pointer fields distinguish
// "absent" from zero values.
type dataRequest struct {
	Temp1     *float64 `json:"temp1"`
	Temp2     *float64 `json:"temp2"`
	Sensor1   *bool    `json:"sensor1"`
	Sensor2   *bool    `json:"sensor2"`
	Timestamp *float64 `json:"timestamp"`
}

// dataResponse echoes the desired command state back to the device.
type dataResponse struct {
	Status    string `json:"status"`
	Sensor1   bool   `json:"sensor1"`
	Sensor2   bool   `json:"sensor2"`
	DisplayOn bool   `json:"display_on"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	var req dataRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		s.log.Warn("malformed device payload", "remote", r.RemoteAddr, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Status: "error", Message: err.Error()})
		return
	}

	now := s.now()

	// Device-reported switch state only sticks once the local toggle
	// debounce has passed.
	if req.Sensor1 != nil {
		s.commands.SetFromRemote(sensor.Probe1, *req.Sensor1, now)
	}
	if req.Sensor2 != nil {
		s.commands.SetFromRemote(sensor.Probe2, *req.Sensor2, now)
	}

	s.mailbox.Put(sensor.Batch{
		Temps: map[sensor.ID]sensor.Sample{
			sensor.Probe1: toSample(req.Temp1),
			sensor.Probe2: toSample(req.Temp2),
		},
		ProbeState: map[sensor.ID]*bool{
			sensor.Probe1: req.Sensor1,
			sensor.Probe2: req.Sensor2,
		},
		ReceivedAt: now,
	})

	cmd := s.commands.Get()
	s.log.Debug("device post",
		"remote", r.RemoteAddr,
		"temp1", fmtTemp(req.Temp1), "temp2", fmtTemp(req.Temp2),
		"sensor1_cmd", cmd.Sensor1, "sensor2_cmd", cmd.Sensor2)

	writeJSON(w, http.StatusOK, dataResponse{
		Status:    "success",
		Sensor1:   cmd.Sensor1,
		Sensor2:   cmd.Sensor2,
		DisplayOn: cmd.DisplayOn,
	})
}

func toSample(v *float64) sensor.Sample {
	if v == nil {
		return sensor.Missing()
	}
	return sensor.Value(*v)
}

func fmtTemp(v *float64) any {
	if v == nil {
		return "none"
	}
	return *v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
