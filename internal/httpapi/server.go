// Package httpapi exposes the worker's HTTP intake surface: POST /execute
// (API-key authenticated) and GET /health.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/facade"
)

// supportedLanguages is the set of language tags accepted in an inbound
// request, independent of which single language this worker instance is
// configured to run (a request for any other language is rejected at the
// boundary, before ever reaching the facade).
var supportedLanguages = mapset.NewSet(
	evalmodel.LangC, evalmodel.LangPython, evalmodel.LangJava, evalmodel.LangRust, evalmodel.LangGo,
)

// Submitter is the subset of facade.Service the HTTP handlers depend on.
type Submitter interface {
	Submit(req facade.Request)
}

// Server wires the Evaluation Service Facade behind an authenticated HTTP
// surface.
type Server struct {
	Facade        Submitter
	APIHeaderName string
	APIKey        string
	Logger        *slog.Logger

	router *chi.Mux
}

// New builds a Server with its routes and request-logging middleware
// registered.
func New(facadeSvc Submitter, apiHeaderName, apiKey string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := chi.NewRouter()
	httpLogger := httplog.NewLogger("evalworker", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  true,
	})
	router.Use(httplog.RequestLogger(httpLogger))

	s := &Server{Facade: facadeSvc, APIHeaderName: apiHeaderName, APIKey: apiKey, Logger: logger, router: router}
	router.Post("/execute", s.handleExecute)
	router.Get("/health", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// inboundTestCase mirrors one entry of the inbound testCases array.
type inboundTestCase struct {
	TestCaseID             string `json:"testCaseId"`
	InputFilePath          string `json:"inputFilePath"`
	ExpectedOutputFilePath string `json:"expectedOutputFilePath"`
	TimeLimitMs            int    `json:"timeLimitMs"`
	MaxRAMMB               int    `json:"maxRamMB"`
}

// inboundRequest is the JSON body of POST /execute.
type inboundRequest struct {
	Language     evalmodel.Language `json:"language"`
	SubmissionID string             `json:"submissionId"`
	CodeFilePath string             `json:"codeFilePath"`
	TestCases    []inboundTestCase  `json:"testCases"`
	SQSQueueURL  string             `json:"sqsQueueUrl,omitempty"`
	NATSSubject  string             `json:"natsSubject,omitempty"`
}

type problemJSON struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if s.APIHeaderName != "" {
		if r.Header.Get(s.APIHeaderName) != s.APIKey || s.APIKey == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	var body inboundRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusInternalServerError, "invalid request body", err.Error())
		return
	}

	if err := validate(body); err != nil {
		writeProblem(w, http.StatusInternalServerError, "invalid request", err.Error())
		return
	}

	req := facade.Request{
		Language:     body.Language,
		SubmissionID: body.SubmissionID,
		CodeFilePath: body.CodeFilePath,
		SQSQueueURL:  body.SQSQueueURL,
		NATSSubject:  body.NATSSubject,
	}
	for _, tc := range body.TestCases {
		req.TestCases = append(req.TestCases, facade.TestCaseRequest{
			TestCaseID:             tc.TestCaseID,
			InputFilePath:          tc.InputFilePath,
			ExpectedOutputFilePath: tc.ExpectedOutputFilePath,
			TimeLimitMs:            tc.TimeLimitMs,
			MaxRAMMB:               tc.MaxRAMMB,
		})
	}

	s.Facade.Submit(req)
	w.WriteHeader(http.StatusOK)
}

func validate(body inboundRequest) error {
	if !supportedLanguages.Contains(body.Language) {
		return errInvalidLanguage(body.Language)
	}
	if body.CodeFilePath == "" {
		return errMissingField("codeFilePath")
	}
	for _, tc := range body.TestCases {
		if tc.TimeLimitMs < 100 || tc.TimeLimitMs > 10000 {
			return errOutOfRange("timeLimitMs", tc.TimeLimitMs, 100, 10000)
		}
		if tc.MaxRAMMB < 32 || tc.MaxRAMMB > 512 {
			return errOutOfRange("maxRamMB", tc.MaxRAMMB, 32, 512)
		}
	}
	return nil
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problemJSON{Title: title, Detail: detail})
}
