package langkit

import (
	"fmt"
	"log/slog"

	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/supervisor"
)

// New instantiates the Adapter for lang. A worker process instantiates
// exactly one, per the Execution:Language config key.
func New(lang evalmodel.Language, sup *supervisor.Supervisor, logger *slog.Logger) (Adapter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch lang {
	case evalmodel.LangC:
		return &cAdapter{sup: sup, logger: logger}, nil
	case evalmodel.LangPython:
		return &pythonAdapter{sup: sup, logger: logger}, nil
	case evalmodel.LangJava:
		return &javaAdapter{sup: sup, logger: logger}, nil
	case evalmodel.LangRust:
		return &rustAdapter{sup: sup, logger: logger}, nil
	case evalmodel.LangGo:
		return &goAdapter{sup: sup, logger: logger}, nil
	default:
		return nil, fmt.Errorf("langkit: unsupported language %q", lang)
	}
}
