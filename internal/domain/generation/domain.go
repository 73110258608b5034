package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/mockupstudio/server/internal/utils/metrics"
	"github.com/mockupstudio/server/internal/utils/requestctx"
	"go.uber.org/zap"
)

// Outcome is the final state of a generation attempt.
type Outcome string

const (
	OutcomePending          Outcome = "pending"
	OutcomeSucceeded        Outcome = "succeeded"
	OutcomeFailedRefunded   Outcome = "failed_refunded"
	OutcomeFailedUnrefunded Outcome = "failed_unrefunded"
	// OutcomeRejected is an attempt that ended before any credits were reserved.
	OutcomeRejected Outcome = "rejected"
)

// Attempt is one request-scoped, priced invocation of an image operation.
type Attempt struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Kind      Kind
	Tier      Tier
	Model     string
	Price     int64
	Call      *Call
	// Style and OriginalImage are set for style transfers.
	Style         *model.Style
	OriginalImage string
	Outcome       Outcome
}

// Result is returned to the caller of a successful attempt.
type Result struct {
	Kind  Kind
	Image string
	// Credits is the balance after the charge, nil when it could not be read.
	Credits *int64
	Tier    Tier
	Model   string
}

// Config holds orchestrator settings.
type Config struct {
	// RefundTimeout bounds a refund that runs after the request context ended.
	RefundTimeout time.Duration
	// AssetPrefix is the object key prefix of uploaded results.
	AssetPrefix string
}

// Domain orchestrates reserve, gateway call, then commit or refund.
type Domain struct {
	accounts        outbound.AccountDatabasePort
	ledger          outbound.LedgerPort
	history         outbound.HistoryPort
	transactions    outbound.TransactionDatabasePort
	styles          outbound.StyleDatabasePort
	generatedImages outbound.GeneratedImageDatabasePort
	assets          outbound.AssetStorePort
	gateway         *Gateway
	metrics         *metrics.Metrics
	cfg             Config
	logger          *zap.Logger
	now             func() time.Time
}

// Ports groups the persistence ports the orchestrator needs.
type Ports struct {
	Accounts        outbound.AccountDatabasePort
	Ledger          outbound.LedgerPort
	History         outbound.HistoryPort
	Transactions    outbound.TransactionDatabasePort
	Styles          outbound.StyleDatabasePort
	GeneratedImages outbound.GeneratedImageDatabasePort
	// Assets is optional; without it results are kept as returned by the gateway.
	Assets outbound.AssetStorePort
}

// NewGenerationDomain creates a new generation orchestrator.
func NewGenerationDomain(ports Ports, gateway *Gateway, m *metrics.Metrics, cfg Config, logger *zap.Logger) *Domain {
	if cfg.RefundTimeout <= 0 {
		cfg.RefundTimeout = 10 * time.Second
	}
	if cfg.AssetPrefix == "" {
		cfg.AssetPrefix = "generated"
	}
	return &Domain{
		accounts:        ports.Accounts,
		ledger:          ports.Ledger,
		history:         ports.History,
		transactions:    ports.Transactions,
		styles:          ports.Styles,
		generatedImages: ports.GeneratedImages,
		assets:          ports.Assets,
		gateway:         gateway,
		metrics:         m,
		cfg:             cfg,
		logger:          logger,
		now:             time.Now,
	}
}

// --- Operations ---

func (d *Domain) Enhance(ctx context.Context, accountID uuid.UUID, req *EnhanceRequest) (*Result, error) {
	if err := d.authenticate(ctx, accountID); err != nil {
		return nil, err
	}
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	return d.execute(ctx, d.newAttempt(accountID, KindEnhance, TierStandard, &Call{Kind: KindEnhance, Enhance: in}))
}

func (d *Domain) Generate(ctx context.Context, accountID uuid.UUID, req *GenerateRequest) (*Result, error) {
	if err := d.authenticate(ctx, accountID); err != nil {
		return nil, err
	}
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	return d.execute(ctx, d.newAttempt(accountID, KindGenerate, TierStandard, &Call{Kind: KindGenerate, Generate: in}))
}

func (d *Domain) Upscale(ctx context.Context, accountID uuid.UUID, req *UpscaleRequest) (*Result, error) {
	if err := d.authenticate(ctx, accountID); err != nil {
		return nil, err
	}
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	return d.execute(ctx, d.newAttempt(accountID, KindUpscale, TierStandard, &Call{Kind: KindUpscale, Upscale: in}))
}

func (d *Domain) StyleTransfer(ctx context.Context, accountID uuid.UUID, req *StyleTransferRequest) (*Result, error) {
	if strings.TrimSpace(req.StyleID) == "" {
		return nil, invalid("styleId is required")
	}
	if err := d.authenticate(ctx, accountID); err != nil {
		return nil, err
	}

	styleID, err := uuid.Parse(req.StyleID)
	if err != nil {
		return nil, ErrStyleNotFound
	}
	style, err := d.styles.GetByID(ctx, styleID)
	if err != nil {
		return nil, fmt.Errorf("get style: %w", err)
	}
	if style == nil {
		return nil, ErrStyleNotFound
	}
	if style.ReferenceImage == "" {
		return nil, invalid("Style is missing reference image")
	}

	styleType := effectiveStyleType(style)
	isFabricMockup := styleType == model.StyleTypeFabricMockup

	mainImage := req.mainImage()
	if mainImage == "" {
		if isFabricMockup {
			return nil, invalid("fabricImage is required")
		}
		return nil, invalid("image is required")
	}
	if isFabricMockup && style.RequiresLogoUpload && req.LogoImage == "" {
		return nil, invalid("logoImage is required")
	}

	tier, err := ParseTier(req.ResolutionChoice)
	if err != nil {
		return nil, err
	}
	modelName := ModelForTier(tier)

	images := []string{style.ReferenceImage, mainImage}
	if isFabricMockup && req.LogoImage != "" {
		images = append(images, req.LogoImage)
	}

	attempt := d.newAttempt(accountID, KindStyleTransfer, tier, &Call{
		Kind: KindStyleTransfer,
		ModelRun: &outbound.ModelRunInput{
			Model:      modelName,
			Prompt:     BuildPrompt(style, modelName, req.UserPrompt),
			Images:     images,
			Resolution: ModelResolution(tier),
		},
	})
	attempt.Model = modelName
	attempt.Style = style
	attempt.OriginalImage = mainImage
	return d.execute(ctx, attempt)
}

// --- State machine ---

func (d *Domain) authenticate(ctx context.Context, accountID uuid.UUID) error {
	if accountID == uuid.Nil {
		return ErrUnauthorized
	}
	account, err := d.accounts.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return ErrUnauthorized
	}
	return nil
}

func (d *Domain) newAttempt(accountID uuid.UUID, kind Kind, tier Tier, call *Call) *Attempt {
	return &Attempt{
		ID:        uuid.New(),
		AccountID: accountID,
		Kind:      kind,
		Tier:      tier,
		Model:     ModelForTier(tier),
		Call:      call,
		Outcome:   OutcomePending,
	}
}

func (d *Domain) execute(ctx context.Context, a *Attempt) (*Result, error) {
	log := d.logger.With(append(requestctx.LogFields(ctx),
		zap.String("attempt_id", a.ID.String()),
		zap.String("kind", string(a.Kind)),
		zap.String("account_id", a.AccountID.String()),
	)...)

	price, err := Price(a.Kind, a.Tier)
	if err != nil {
		return nil, err
	}
	a.Price = price

	reserved, err := d.ledger.TryReserve(ctx, a.AccountID, price)
	if err != nil {
		return nil, fmt.Errorf("reserve credits: %w", err)
	}
	if !reserved {
		a.Outcome = OutcomeRejected
		d.metrics.RecordGeneration(string(a.Kind), string(a.Outcome))
		return nil, ErrInsufficientCredits
	}
	d.metrics.RecordReserved(string(a.Kind), price)

	asset, err := d.gateway.Invoke(ctx, a.Call)
	if err != nil {
		log.Warn("generation failed, refunding", zap.Int64("credits", price), zap.Error(err))
		d.refund(ctx, a, log)
		d.metrics.RecordGeneration(string(a.Kind), string(a.Outcome))
		return nil, err
	}

	image := d.storeAsset(ctx, a, asset.Image, log)
	a.Outcome = OutcomeSucceeded
	d.commit(ctx, a, image, log)
	d.metrics.RecordGeneration(string(a.Kind), string(a.Outcome))

	res := &Result{
		Kind:  a.Kind,
		Image: image,
		Tier:  a.Tier,
		Model: a.Model,
	}
	if balance, err := d.ledger.Balance(ctx, a.AccountID); err != nil {
		log.Error("read balance after generation", zap.Error(err))
	} else {
		res.Credits = &balance
	}
	return res, nil
}

// refund returns the reserved credits. It runs detached from the request
// context so a disconnected client still gets its credits back.
func (d *Domain) refund(ctx context.Context, a *Attempt, log *zap.Logger) {
	refundCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.RefundTimeout)
	defer cancel()

	if err := d.ledger.Refund(refundCtx, a.AccountID, a.Price); err != nil {
		a.Outcome = OutcomeFailedUnrefunded
		log.Error("refund failed", zap.Int64("credits", a.Price), zap.Error(fmt.Errorf("%w: %w", ErrRefundFailure, err)))
		return
	}
	a.Outcome = OutcomeFailedRefunded
	d.metrics.RecordRefunded(string(a.Kind), a.Price)
}

// commit writes the effects of a successful generation. Credits are never
// refunded from here: failures are logged and the attempt stays successful.
func (d *Domain) commit(ctx context.Context, a *Attempt, image string, log *zap.Logger) {
	entry := model.HistoryEntry{URL: image, CreatedAt: d.now().UTC()}
	if err := d.history.Prepend(ctx, a.AccountID, entry); err != nil {
		log.Error("record history", zap.Error(fmt.Errorf("%w: %w", ErrPersistenceFailure, err)))
	}

	if a.Kind != KindStyleTransfer {
		return
	}

	description := fmt.Sprintf("studio:%s:%s:%s", a.Style.ID, a.Model, a.Tier)
	if err := d.transactions.RecordDebit(ctx, a.AccountID, a.Price, description); err != nil {
		log.Error("record debit", zap.String("description", description),
			zap.Error(fmt.Errorf("%w: %w", ErrPersistenceFailure, err)))
	}

	d.recordGeneratedImage(ctx, a, image, log)
}

// recordGeneratedImage writes the audit row. It is not part of the paid
// operation and its failure is only logged.
func (d *Domain) recordGeneratedImage(ctx context.Context, a *Attempt, image string, log *zap.Logger) {
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.RefundTimeout)
	defer cancel()

	err := d.generatedImages.Create(auditCtx, &model.GeneratedImage{
		AccountID:         a.AccountID,
		StyleID:           a.Style.ID,
		OriginalImageURL:  a.OriginalImage,
		GeneratedImageURL: image,
	})
	if err != nil {
		log.Warn("record generated image", zap.Error(err))
	}
}

// storeAsset uploads inline results to the asset store when one is configured.
// Any failure keeps the image as returned by the gateway.
func (d *Domain) storeAsset(ctx context.Context, a *Attempt, image string, log *zap.Logger) string {
	if d.assets == nil || !model.IsDataURL(image) {
		return image
	}

	contentType, body, err := decodeDataURL(image)
	if err != nil {
		log.Warn("decode generated image", zap.Error(err))
		return image
	}

	key := fmt.Sprintf("%s/%s/%s/%s%s", d.cfg.AssetPrefix, a.Kind, d.now().UTC().Format("2006/01/02"), a.ID, extensionFor(contentType))
	url, err := d.assets.Put(ctx, key, body, contentType)
	if err != nil {
		log.Warn("upload generated image, keeping inline copy", zap.String("key", key), zap.Error(err))
		return image
	}
	return url
}

func decodeDataURL(s string) (string, []byte, error) {
	m := dataURLPattern.FindStringSubmatch(s)
	if m == nil {
		return "", nil, fmt.Errorf("not a base64 image data URL")
	}
	body, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("decode base64: %w", err)
	}
	return m[1], body, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
