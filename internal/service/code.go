package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"card-service/internal/audit"
	"card-service/internal/auth"
	"card-service/internal/domain/code"
	"card-service/internal/repository"
	apperrors "card-service/pkg/errors"
	"card-service/pkg/logger"
	"card-service/pkg/metrics"

	"go.uber.org/zap"
)

// CodeService issues, regenerates and redeems access codes.
type CodeService struct {
	deps       Deps
	codeLength int
	tokens     TokenIssuer
	generate   func(length int) (string, error)
}

func NewCodeService(deps Deps, codeLength int, tokens TokenIssuer) *CodeService {
	return &CodeService{
		deps:       deps.withDefaults(),
		codeLength: codeLength,
		tokens:     tokens,
		generate:   auth.GenerateCode,
	}
}

// Redemption is the outcome of a successful redeem.
type Redemption struct {
	CardID int64
	Token  *auth.IssuedToken
}

// issue creates a fresh active code for cardID using r. Callers must have
// deactivated any previous active code in the same transaction. A digest
// that is already taken is retried with a new code up to maxIssueAttempts.
func (s *CodeService) issue(ctx context.Context, r repository.Repositories, cardID int64) (*code.Issued, error) {
	for attempt := 1; ; attempt++ {
		plaintext, err := s.generate(s.codeLength)
		if err != nil {
			return nil, apperrors.Internal(msgCodeGenerateFailed, err)
		}

		row, err := r.Codes.Create(ctx, cardID, auth.HashCode(plaintext))
		if errors.Is(err, repository.ErrCodeHashTaken) && attempt < maxIssueAttempts {
			logger.FromContext(ctx, s.deps.Logger).Warn("generated code already issued, retrying",
				zap.Int64("card_id", cardID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		return &code.Issued{Code: row, Plaintext: plaintext}, nil
	}
}

// Regenerate deactivates every active code of the card and issues a new
// one. The card row lock serializes concurrent calls, so exactly one code is
// active afterwards.
func (s *CodeService) Regenerate(ctx context.Context, cardID int64) (*code.Issued, error) {
	var (
		issued      *code.Issued
		deactivated int64
	)
	err := s.deps.Store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Cards.Lock(ctx, cardID); err != nil {
			return err
		}
		n, err := r.Codes.DeactivateByCard(ctx, cardID)
		if err != nil {
			return err
		}
		deactivated = n
		issued, err = s.issue(ctx, r, cardID)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound(msgCardNotFound)
		}
		return nil, fmt.Errorf(errRegenerateCodeFmt, err)
	}

	s.deps.Metrics.CodeIssued(metrics.ReasonRegenerate)
	s.deps.Audit.Record(ctx, audit.EventCodeRegenerated, cardID, map[string]any{metaDeactivated: deactivated})
	logger.FromContext(ctx, s.deps.Logger).Info("access code regenerated",
		zap.Int64("card_id", cardID),
		zap.Int64("deactivated", deactivated),
	)
	return issued, nil
}

// Redeem exchanges a plaintext code for an edit token. An unknown or
// inactive code is NotFound. existingToken is the caller's current token,
// reused when it is still valid for the same card. Redeeming does not
// consume the code.
func (s *CodeService) Redeem(ctx context.Context, plaintext, existingToken string) (*Redemption, error) {
	plaintext = strings.TrimSpace(plaintext)
	if plaintext == "" {
		return nil, apperrors.Validation(msgCodeRequired)
	}

	row, err := s.deps.Store.Repositories().Codes.GetActiveByHash(ctx, auth.HashCode(plaintext))
	if err != nil {
		s.deps.Metrics.CodeRedeemed(metrics.ResultFailure)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound(msgInvalidCode)
		}
		return nil, err
	}

	issued, err := s.tokens.GetOrCreate(existingToken, row.CardID)
	if err != nil {
		s.deps.Metrics.CodeRedeemed(metrics.ResultFailure)
		return nil, apperrors.Internal(msgTokenIssueFailed, err)
	}

	s.deps.Metrics.CodeRedeemed(metrics.ResultSuccess)
	if issued.Reused {
		s.deps.Metrics.TokenIssued(metrics.FlowReused)
	} else {
		s.deps.Metrics.TokenIssued(metrics.FlowMinted)
	}
	s.deps.Audit.Record(ctx, audit.EventCodeRedeemed, row.CardID, map[string]any{metaReused: issued.Reused})
	logger.FromContext(ctx, s.deps.Logger).Info("access code redeemed",
		zap.Int64("card_id", row.CardID),
		zap.Bool("reused", issued.Reused),
	)

	return &Redemption{CardID: row.CardID, Token: issued}, nil
}
