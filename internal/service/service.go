// Package service composes repositories, tokens and object storage into the
// card use cases. Services never log or persist plaintext codes or tokens.
package service

import (
	"card-service/internal/config"
	"card-service/internal/repository"
	"card-service/pkg/metrics"

	"go.uber.org/zap"
)

// Deps are shared by every service.
type Deps struct {
	Store   repository.Store
	Objects ObjectStore
	Audit   AuditRecorder
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Audit == nil {
		d.Audit = nopAudit{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// Services is the full set used by the HTTP layer.
type Services struct {
	Cards   *CardService
	Codes   *CodeService
	Socials *SocialService
	Assets  *AssetService
}

func New(deps Deps, app config.AppConfig, tokens TokenIssuer) *Services {
	deps = deps.withDefaults()
	codes := NewCodeService(deps, app.CodeLength, tokens)
	return &Services{
		Cards:   NewCardService(deps, codes),
		Codes:   codes,
		Socials: NewSocialService(deps),
		Assets:  NewAssetService(deps, app),
	}
}
