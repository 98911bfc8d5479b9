package webservices

import (
	"context"
	"image/png"
	"net"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-labels/ownmaprenderer"
	"github.com/jamesrr39/ownmap-labels/ownmaprenderer/rasterbackend"
	"github.com/jamesrr39/ownmap-labels/styling"
	"github.com/jamesrr39/semaphore"
	"github.com/pkg/profile"
)

type FrameRenderer interface {
	RenderFrame(ctx context.Context, style styling.Style, options ownmaprenderer.FrameOptions) (*ownmaprenderer.Frame, errorsx.Error)
}

type FrameService struct {
	logger               *logpkg.Logger
	sema                 *semaphore.Semaphore
	maxConcurrentRenders uint
	renderer             FrameRenderer
	styleSet             *styling.StyleSet
	shouldProfile        bool
	chi.Router
}

// NewFrameService creates the frame routes. Only one profile can run at a time, so profiling
// renders frames one by one.
func NewFrameService(logger *logpkg.Logger, renderer FrameRenderer, styleSet *styling.StyleSet, maxConcurrentRenders uint, shouldProfile bool) *FrameService {
	if maxConcurrentRenders == 0 {
		maxConcurrentRenders = 1
	}

	if shouldProfile && maxConcurrentRenders > 1 {
		logger.Info("profiling enabled, limiting concurrent renders from %d to 1", maxConcurrentRenders)
		maxConcurrentRenders = 1
	}

	fs := &FrameService{
		logger,
		semaphore.NewSemaphore(maxConcurrentRenders),
		maxConcurrentRenders,
		renderer,
		styleSet,
		shouldProfile,
		chi.NewRouter(),
	}

	fs.Get("/{z}/{lat}/{lon}/frame.png", fs.handleGetFrameImage)
	fs.Get("/{z}/{lat}/{lon}/draws", fs.handleGetFrameDraws)

	return fs
}

func (fs *FrameService) getStyle(styleID string) (styling.Style, errorsx.Error) {
	if styleID == "" {
		return fs.styleSet.GetDefaultStyle(), nil
	}

	style := fs.styleSet.GetStyleByID(styleID)
	if style == nil {
		return nil, errorsx.Errorf("couldn't get requested style %q (style not loaded)", styleID)
	}

	return style, nil
}

// renderFrame writes an error response and returns nil if the frame couldn't be rendered.
func (fs *FrameService) renderFrame(w http.ResponseWriter, r *http.Request) *ownmaprenderer.Frame {
	options, err := frameOptionsFromRequest(r)
	if err != nil {
		errorsx.HTTPError(w, fs.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return nil
	}

	style, err := fs.getStyle(r.URL.Query().Get("styleId"))
	if err != nil {
		errorsx.HTTPError(w, fs.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return nil
	}

	fs.logger.Debug("rendering frame at %v (zoom %v, bearing %v, pitch %v) with style %q",
		options.Center, options.Zoom, options.BearingDegrees, options.PitchDegrees, style.GetStyleID())

	fs.sema.Add()
	defer fs.sema.Done()

	if fs.shouldProfile {
		defer profile.Start().Stop()
	}

	frame, err := fs.renderer.RenderFrame(r.Context(), style, options)
	if err != nil {
		errorsx.HTTPError(w, fs.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return nil
	}

	return frame
}

func (fs *FrameService) handleGetFrameImage(w http.ResponseWriter, r *http.Request) {
	frame := fs.renderFrame(w, r)
	if frame == nil {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	err := png.Encode(w, frame.Image)
	if err != nil {
		switch err.(type) {
		case *net.OpError:
			// broken pipe (request cancelled). Do nothing
		default:
			errorsx.HTTPError(w, fs.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		}
		return
	}
}

type drawsResponseType struct {
	Draws []*rasterbackend.DrawRecord `json:"draws"`
}

func (fs *FrameService) handleGetFrameDraws(w http.ResponseWriter, r *http.Request) {
	frame := fs.renderFrame(w, r)
	if frame == nil {
		return
	}

	draws := frame.Draws
	if draws == nil {
		draws = []*rasterbackend.DrawRecord{}
	}

	render.JSON(w, r, drawsResponseType{draws})
}
