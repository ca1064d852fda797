// Package natsintake subscribes to an optional NATS subject carrying the
// same JSON body as POST /execute, for horizontal fan-out deployments that
// prefer a queue to a load balancer.
package natsintake

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/facade"
)

// inboundTestCase mirrors the HTTP intake's wire shape.
type inboundTestCase struct {
	TestCaseID             string `json:"testCaseId"`
	InputFilePath          string `json:"inputFilePath"`
	ExpectedOutputFilePath string `json:"expectedOutputFilePath"`
	TimeLimitMs            int    `json:"timeLimitMs"`
	MaxRAMMB               int    `json:"maxRamMB"`
}

type inboundRequest struct {
	Language     evalmodel.Language `json:"language"`
	SubmissionID string             `json:"submissionId"`
	CodeFilePath string             `json:"codeFilePath"`
	TestCases    []inboundTestCase  `json:"testCases"`
	SQSQueueURL  string             `json:"sqsQueueUrl,omitempty"`
	NATSSubject  string             `json:"natsSubject,omitempty"`
}

// Submitter is the subset of facade.Service the subscriber depends on.
type Submitter interface {
	Submit(req facade.Request)
}

// Subscriber mirrors POST /execute over a NATS subject.
type Subscriber struct {
	Conn    *nats.Conn
	Subject string
	Facade  Submitter
	Logger  *slog.Logger

	sub *nats.Subscription
}

// New returns a Subscriber; a nil logger falls back to slog.Default().
func New(conn *nats.Conn, subject string, facadeSvc Submitter, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{Conn: conn, Subject: subject, Facade: facadeSvc, Logger: logger}
}

// Start subscribes to Subject and dispatches every message that parses as
// JSON to the facade. Malformed messages are logged and dropped instead of
// crashing the process. Unlike the HTTP intake, no language or limit-range
// validation is applied.
func (s *Subscriber) Start() error {
	sub, err := s.Conn.Subscribe(s.Subject, s.handleMessage)
	if err != nil {
		return err
	}
	s.sub = sub
	return nil
}

// Stop unsubscribes.
func (s *Subscriber) Stop() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Unsubscribe()
}

func (s *Subscriber) handleMessage(msg *nats.Msg) {
	req, err := parseInbound(msg.Data)
	if err != nil {
		s.Logger.Error("natsintake: malformed message dropped", "error", err)
		return
	}
	s.Facade.Submit(req)
}

func parseInbound(data []byte) (facade.Request, error) {
	var body inboundRequest
	if err := json.Unmarshal(data, &body); err != nil {
		return facade.Request{}, err
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
	return req, nil
}
