package services

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/coactive-dev/sallyport/modules/iam/domain/types"
)

// ChainContext is the request context a guard expression may inspect, exposed
// to CEL as a string map under "ctx".
type ChainContext struct {
	UserID string
	OrgID  string
}

var newChainCELEnv = func() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("ctx", cel.MapType(cel.StringType, cel.StringType)))
}

var chainGuardProgramCache sync.Map

// ValidateChain decides whether requesting may act on behalf of target.
// The check is non-strict: a level may always act upon itself. Unknown level
// names are configuration errors; denial is a plain result.
func (r *LevelRegistry) ValidateChain(requesting, target string, chainCtx ChainContext) (types.ChainDecision, error) {
	requester, ok := r.Lookup(requesting)
	if !ok {
		return types.ChainDecision{}, fmt.Errorf("iam: unknown authorization level %q", requesting)
	}
	tgt, ok := r.Lookup(target)
	if !ok {
		return types.ChainDecision{}, fmt.Errorf("iam: unknown authorization level %q", target)
	}

	if requester.Level > tgt.Level {
		return types.ChainDecision{
			Valid:  false,
			Reason: types.ChainReasonInsufficientLevel,
			Chain:  fmt.Sprintf("%s(%d) !-> %s(%d)", requester.Name, requester.Level, tgt.Name, tgt.Level),
		}, nil
	}

	if requester.Guard != "" {
		allowed, err := evalChainGuard(requester.Guard, map[string]string{
			"requester": requester.Name,
			"target":    tgt.Name,
			"user_id":   chainCtx.UserID,
			"org_id":    chainCtx.OrgID,
		})
		if err != nil {
			return types.ChainDecision{}, err
		}
		if !allowed {
			return types.ChainDecision{
				Valid:  false,
				Reason: types.ChainReasonGuardRejected,
				Chain:  fmt.Sprintf("%s(%d) !-> %s(%d)", requester.Name, requester.Level, tgt.Name, tgt.Level),
			}, nil
		}
	}

	return types.ChainDecision{
		Valid:       true,
		Chain:       fmt.Sprintf("%s(%d) -> %s(%d)", requester.Name, requester.Level, tgt.Name, tgt.Level),
		Permissions: append([]string{}, requester.Permissions...),
	}, nil
}

func evalChainGuard(expr string, ctxMap map[string]string) (bool, error) {
	prog, err := chainGuardProgram(expr)
	if err != nil {
		return false, err
	}
	out, _, err := prog.Eval(map[string]any{"ctx": ctxMap})
	if err != nil {
		return false, fmt.Errorf("iam: guard eval: %w", err)
	}
	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("iam: guard %q is not a boolean expression", expr)
	}
	return allowed, nil
}

func chainGuardProgram(expr string) (cel.Program, error) {
	if cached, ok := chainGuardProgramCache.Load(expr); ok {
		return cached.(cel.Program), nil
	}
	env, err := newChainCELEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("iam: guard compile: %w", issues.Err())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	chainGuardProgramCache.Store(expr, prog)
	return prog, nil
}
