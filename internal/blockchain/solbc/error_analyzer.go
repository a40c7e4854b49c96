package solbc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/blockchain"
)

// ErrorAnalyzer extracts program errors from failed preflight simulations.
type ErrorAnalyzer struct {
	logger *zap.Logger
}

// NewErrorAnalyzer creates a new ErrorAnalyzer instance
func NewErrorAnalyzer(logger *zap.Logger) *ErrorAnalyzer {
	return &ErrorAnalyzer{
		logger: logger.Named("error-analyzer"),
	}
}

// AnchorErrorFrom returns the Anchor error reported in the simulation logs
// carried by a JSON-RPC error, or nil.
func (ea *ErrorAnalyzer) AnchorErrorFrom(err error) *blockchain.AnchorError {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) || rpcErr.Data == nil {
		return nil
	}
	dataMap, ok := rpcErr.Data.(map[string]interface{})
	if !ok {
		return nil
	}
	logs, ok := dataMap["logs"].([]interface{})
	if !ok {
		return nil
	}

	lines := make([]string, 0, len(logs))
	for _, entry := range logs {
		if s, ok := entry.(string); ok {
			lines = append(lines, s)
		}
	}
	anchorErr := ParseAnchorError(lines)
	if anchorErr != nil {
		ea.logger.Warn("Anchor error detected",
			zap.Int("code", anchorErr.Code),
			zap.String("name", anchorErr.Name),
			zap.String("message", anchorErr.Msg))
	}
	return anchorErr
}

// ParseAnchorError scans program logs for an Anchor error line such as
// "Program log: AnchorError occurred. Error Code: InstructionFallbackNotFound.
// Error Number: 101. Error Message: Fallback functions are not supported."
func ParseAnchorError(logs []string) *blockchain.AnchorError {
	for _, line := range logs {
		if !strings.Contains(line, "AnchorError") {
			continue
		}
		result := &blockchain.AnchorError{}
		if v, ok := fieldAfter(line, "Error Number:"); ok {
			fmt.Sscanf(v, "%d", &result.Code)
		}
		if v, ok := fieldAfter(line, "Error Code:"); ok {
			result.Name = v
		}
		if idx := strings.Index(line, "Error Message:"); idx >= 0 {
			result.Msg = strings.TrimSuffix(strings.TrimSpace(line[idx+len("Error Message:"):]), ".")
		}
		return result
	}
	return nil
}

func fieldAfter(line, label string) (string, bool) {
	idx := strings.Index(line, label)
	if idx < 0 {
		return "", false
	}
	rest := line[idx+len(label):]
	return strings.TrimSpace(strings.SplitN(rest, ".", 2)[0]), true
}
