package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bannerlab/internal/adapter/repo"
	"bannerlab/internal/domain"
	"bannerlab/internal/imaging"
	"bannerlab/internal/infra"
	"bannerlab/internal/providers/adcopy"
	"bannerlab/internal/providers/bgstudio"
	"bannerlab/internal/storage"
)

// historyLimit caps how many past interactions feed the copy prompt.
const historyLimit = 20

// maxSourceBytes caps a fetched source artifact at 32 MiB.
const maxSourceBytes = 32 << 20

// Generator is the studio call the background pipelines depend on.
type Generator interface {
	Generate(ctx context.Context, imageBytes []byte, params bgstudio.Params) ([]byte, error)
}

// PipelineOptions wires the externals the pipelines touch.
type PipelineOptions struct {
	SQL      infra.SQLExecutor
	Store    storage.BlobStore
	Studio   Generator
	Composer adcopy.Composer
	// FetchClient downloads source artifacts; defaults to a 60s client.
	FetchClient *http.Client
	Logger      zerolog.Logger
}

// Pipelines implements the worker side of every task type.
type Pipelines struct {
	images       *repo.ImageRepo
	backgrounds  *repo.BackgroundRepo
	recreated    *repo.RecreatedRepo
	resizes      *repo.ResizeRepo
	banners      *repo.BannerRepo
	interactions *repo.InteractionRepo
	store        storage.BlobStore
	studio       Generator
	composer     adcopy.Composer
	fetch        *http.Client
	logger       zerolog.Logger
}

func NewPipelines(opts PipelineOptions) *Pipelines {
	fetch := opts.FetchClient
	if fetch == nil {
		fetch = &http.Client{Timeout: 60 * time.Second}
	}
	return &Pipelines{
		images:       repo.NewImageRepo(opts.SQL),
		backgrounds:  repo.NewBackgroundRepo(opts.SQL),
		recreated:    repo.NewRecreatedRepo(opts.SQL),
		resizes:      repo.NewResizeRepo(opts.SQL),
		banners:      repo.NewBannerRepo(opts.SQL),
		interactions: repo.NewInteractionRepo(opts.SQL),
		store:        opts.Store,
		studio:       opts.Studio,
		composer:     opts.Composer,
		fetch:        fetch,
		logger:       opts.Logger,
	}
}

// RegisterAll binds every pipeline to its task type.
func (p *Pipelines) RegisterAll(r *Runner) {
	r.Register(domain.TaskTypeImageUpload, p.ImageUpload)
	r.Register(domain.TaskTypeBackgroundGenerate, p.BackgroundGenerate)
	r.Register(domain.TaskTypeBackgroundRegenerate, p.BackgroundRegenerate)
	r.Register(domain.TaskTypeBackgroundRecreate, p.BackgroundRecreate)
	r.Register(domain.TaskTypeImageResize, p.ImageResize)
	r.Register(domain.TaskTypeBannerCopy, p.BannerCopy)
}

// ImageUpload stores the uploaded bytes and publishes the URL on the
// placeholder row.
func (p *Pipelines) ImageUpload(ctx context.Context, payload []byte) (any, error) {
	var in UploadPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, fmt.Errorf("decode upload payload: %w", err)
	}
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: upload payload carries no bytes", domain.ErrInvalidImageData)
	}
	url, err := p.store.Put(ctx, in.BlobKey, in.Data, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: store upload: %v", domain.ErrStorage, err)
	}
	if err := p.images.SetURL(ctx, in.ImageID, url); err != nil {
		return nil, err
	}
	return map[string]string{"image_url": url}, nil
}

// BackgroundGenerate produces the first result for a background record.
func (p *Pipelines) BackgroundGenerate(ctx context.Context, payload []byte) (any, error) {
	return p.generateBackground(ctx, payload, false)
}

// BackgroundRegenerate re-runs generation for an existing record and marks
// it recreated.
func (p *Pipelines) BackgroundRegenerate(ctx context.Context, payload []byte) (any, error) {
	return p.generateBackground(ctx, payload, true)
}

func (p *Pipelines) generateBackground(ctx context.Context, payload []byte, recreated bool) (any, error) {
	var in BackgroundPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, fmt.Errorf("decode background payload: %w", err)
	}

	bg, err := p.backgrounds.GetByID(ctx, in.BackgroundID)
	if err != nil {
		return nil, err
	}
	source, err := p.sourceBytesForImage(ctx, bg.ImageID)
	if err != nil {
		return nil, err
	}

	generated, err := p.studio.Generate(ctx, source, bgstudio.Params{
		GenType:       bg.GenType,
		MultiblobSOD:  bg.MultiblobSOD,
		OutputW:       bg.OutputW,
		OutputH:       bg.OutputH,
		BGColorHex:    bg.BGColorHex,
		ConceptOption: bg.ConceptOption,
	})
	if err != nil {
		return nil, fmt.Errorf("studio generate: %w", err)
	}

	url, err := p.storePNG(ctx, in.BlobKey, generated)
	if err != nil {
		return nil, err
	}
	if err := p.backgrounds.CompleteResult(ctx, in.BackgroundID, url, recreated, in.ExpectedVersion); err != nil {
		return nil, err
	}
	return map[string]string{"s3_url": url}, nil
}

// BackgroundRecreate reworks a parent background with a new concept. All
// generation parameters except the concept come from the parent record.
func (p *Pipelines) BackgroundRecreate(ctx context.Context, payload []byte) (any, error) {
	var in RecreatePayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, fmt.Errorf("decode recreate payload: %w", err)
	}

	rec, err := p.recreated.GetByID(ctx, in.RecreatedID)
	if err != nil {
		return nil, err
	}
	parent, err := p.backgrounds.GetByID(ctx, rec.BackgroundID)
	if err != nil {
		return nil, err
	}
	source, err := p.sourceBytesForImage(ctx, parent.ImageID)
	if err != nil {
		return nil, err
	}

	generated, err := p.studio.Generate(ctx, source, bgstudio.Params{
		GenType:       parent.GenType,
		MultiblobSOD:  parent.MultiblobSOD,
		OutputW:       parent.OutputW,
		OutputH:       parent.OutputH,
		BGColorHex:    parent.BGColorHex,
		ConceptOption: rec.ConceptOption,
	})
	if err != nil {
		return nil, fmt.Errorf("studio recreate: %w", err)
	}

	url, err := p.storePNG(ctx, in.BlobKey, generated)
	if err != nil {
		return nil, err
	}
	if err := p.recreated.CompleteResult(ctx, in.RecreatedID, url, in.ExpectedVersion); err != nil {
		return nil, err
	}
	return map[string]string{"s3_url": url}, nil
}

// ImageResize rescales a finished artifact to the requested dimensions.
func (p *Pipelines) ImageResize(ctx context.Context, payload []byte) (any, error) {
	var in ResizePayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, fmt.Errorf("decode resize payload: %w", err)
	}

	rz, err := p.resizes.GetByID(ctx, in.ResizedID)
	if err != nil {
		return nil, err
	}
	srcURL, err := p.resizeSourceURL(ctx, rz)
	if err != nil {
		return nil, err
	}
	data, err := p.fetchSource(ctx, srcURL)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	scaled, err := imaging.Resize(img, rz.Width, rz.Height)
	if err != nil {
		return nil, err
	}
	png, err := imaging.EncodePNG(scaled)
	if err != nil {
		return nil, err
	}

	url, err := p.store.Put(ctx, in.BlobKey, png, "image/png")
	if err != nil {
		return nil, fmt.Errorf("%w: store resized image: %v", domain.ErrStorage, err)
	}
	if err := p.resizes.CompleteResult(ctx, in.ResizedID, url, in.ExpectedVersion); err != nil {
		return nil, err
	}
	return map[string]string{"s3_url": url}, nil
}

// BannerCopy writes two ad/serve copy pairs for a banner, feeding prior
// interactions back into the prompt as conversation context.
func (p *Pipelines) BannerCopy(ctx context.Context, payload []byte) (any, error) {
	var in BannerPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, fmt.Errorf("decode banner payload: %w", err)
	}

	banner, err := p.banners.GetByID(ctx, in.BannerID)
	if err != nil {
		return nil, err
	}
	details, err := p.interactions.RecentDetails(ctx, banner.UserID, historyLimit)
	if err != nil {
		return nil, err
	}
	history := strings.Join(details, " ")

	input := adcopy.CopyInput{
		ItemName:       banner.ItemName,
		ItemConcept:    banner.ItemConcept,
		ItemCategory:   banner.ItemCategory,
		AddInformation: banner.AddInformation,
		History:        history,
	}
	adText, serveText, err := p.composePair(ctx, input, history)
	if err != nil {
		return nil, err
	}
	adText2, serveText2, err := p.composePair(ctx, input, history)
	if err != nil {
		return nil, err
	}

	if err := p.banners.CompleteCopy(ctx, in.BannerID, adText, serveText, adText2, serveText2, in.ExpectedVersion); err != nil {
		return nil, err
	}
	detail := fmt.Sprintf("배너 광고 문구 생성: %s / %s", adText, serveText)
	if err := p.interactions.Append(ctx, banner.UserID, detail); err != nil {
		p.logger.Warn().Err(err).Str("banner_id", in.BannerID).Msg("pipelines: record interaction failed")
	}
	return map[string]string{
		"ad_text":     adText,
		"serve_text":  serveText,
		"ad_text2":    adText2,
		"serve_text2": serveText2,
	}, nil
}

func (p *Pipelines) composePair(ctx context.Context, input adcopy.CopyInput, history string) (string, string, error) {
	adText, err := p.composer.AdText(ctx, input)
	if err != nil {
		return "", "", fmt.Errorf("compose ad text: %w", err)
	}
	adText = adcopy.Truncate(adText, domain.MaxAdTextRunes)

	serveText, err := p.composer.ServeText(ctx, adText, history)
	if err != nil {
		return "", "", fmt.Errorf("compose serve text: %w", err)
	}
	return adText, adcopy.Truncate(serveText, domain.MaxServeTextRunes), nil
}

// sourceBytesForImage downloads the stored bytes of an uploaded photo.
func (p *Pipelines) sourceBytesForImage(ctx context.Context, imageID string) ([]byte, error) {
	img, err := p.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img.Pending() {
		return nil, fmt.Errorf("%w: source image %s has no stored file yet", domain.ErrGenerationFailed, imageID)
	}
	return p.fetchSource(ctx, img.ImageURL)
}

// resizeSourceURL resolves the artifact URL a resize request points at.
func (p *Pipelines) resizeSourceURL(ctx context.Context, rz domain.ResizedImage) (string, error) {
	switch {
	case rz.BackgroundID != "":
		bg, err := p.backgrounds.GetByID(ctx, rz.BackgroundID)
		if err != nil {
			return "", err
		}
		if bg.Pending() {
			return "", fmt.Errorf("%w: background %s has no result yet", domain.ErrGenerationFailed, rz.BackgroundID)
		}
		return bg.ImageURL, nil
	case rz.RecreatedBackgroundID != "":
		rec, err := p.recreated.GetByID(ctx, rz.RecreatedBackgroundID)
		if err != nil {
			return "", err
		}
		if rec.Pending() {
			return "", fmt.Errorf("%w: recreated background %s has no result yet", domain.ErrGenerationFailed, rz.RecreatedBackgroundID)
		}
		return rec.ImageURL, nil
	default:
		return "", fmt.Errorf("%w: resized image %s references no source artifact", domain.ErrValidation, rz.ID)
	}
}

func (p *Pipelines) fetchSource(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build source fetch request: %w", err)
	}
	resp, err := p.fetch.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch source: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: source fetch returned status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read source body: %v", domain.ErrUpstreamUnavailable, err)
	}
	return data, nil
}

// storePNG normalizes studio output to PNG and writes it to the blob
// store under the pre-reserved key.
func (p *Pipelines) storePNG(ctx context.Context, key string, data []byte) (string, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return "", err
	}
	png, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}
	url, err := p.store.Put(ctx, key, png, "image/png")
	if err != nil {
		return "", fmt.Errorf("%w: store generated image: %v", domain.ErrStorage, err)
	}
	return url, nil
}
