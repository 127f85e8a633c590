package preview

import (
	"image"
	"sync"

	"github.com/ByLCY/cinestrip/compose"
	"github.com/ByLCY/cinestrip/scene"
	"github.com/ByLCY/cinestrip/source"
)

// Renderer 生成一帧预览，*compose.Composer 满足该接口。
type Renderer interface {
	Preview(img image.Image, lines []string, style scene.StyleOptions, enc compose.EncodeOptions) (*compose.Result, error)
}

// Frame 是一次触发的渲染结果。
type Frame struct {
	Generation uint64
	Result     *compose.Result
	Err        error
	// Stale 表示渲染完成时已有更新的触发发布过结果，本帧被丢弃。
	Stale bool
}

// Options 配置预览会话。
type Options struct {
	Style  scene.StyleOptions
	Encode compose.EncodeOptions
	// OnFrame 在每次发布新帧时调用，调用期间持有发布锁，不得在其中更新会话。
	OnFrame func(Frame)
}

// Session 保存当前的原图、台词与样式，任一输入变化都会重新渲染一帧。
//
// 每次触发带有递增的序号，只有比已发布帧更新的结果才会被发布，
// 因此并发触发时过期的渲染不会覆盖较新的结果。
type Session struct {
	renderer Renderer
	onFrame  func(Frame)

	mu    sync.Mutex
	image *source.Image
	lines []string
	style scene.StyleOptions
	enc   compose.EncodeOptions
	gen   uint64

	pubMu     sync.Mutex
	published uint64
	latest    *Frame
}

// NewSession 创建会话；样式与编码为零值时使用默认值。
func NewSession(r Renderer, opts Options) *Session {
	style := opts.Style
	if style == (scene.StyleOptions{}) {
		style = scene.DefaultStyle()
	}
	enc := opts.Encode
	if enc == (compose.EncodeOptions{}) {
		enc = compose.DefaultEncodeOptions()
	}
	return &Session{renderer: r, onFrame: opts.OnFrame, style: style, enc: enc}
}

// SetImage 替换原图并重新渲染。
func (s *Session) SetImage(img *source.Image) Frame {
	return s.trigger(func() { s.image = img })
}

// SetText 从输入框原文派生台词并重新渲染。
func (s *Session) SetText(raw string) Frame {
	lines := scene.SplitLines(raw)
	return s.trigger(func() { s.lines = lines })
}

// SetLines 直接设置台词并重新渲染，空白行会被丢弃。
func (s *Session) SetLines(lines []string) Frame {
	clean := scene.CleanLines(lines)
	return s.trigger(func() { s.lines = clean })
}

// SetStyle 替换样式并重新渲染。
func (s *Session) SetStyle(style scene.StyleOptions) Frame {
	return s.trigger(func() { s.style = style })
}

// Update 一次替换全部输入，只渲染一帧。
func (s *Session) Update(img *source.Image, lines []string, style scene.StyleOptions, enc compose.EncodeOptions) Frame {
	clean := scene.CleanLines(lines)
	return s.trigger(func() {
		s.image = img
		s.lines = clean
		s.style = style
		s.enc = enc
	})
}

// Render 以当前输入重新渲染一帧，用于输入未变但需要重新输出的场合。
func (s *Session) Render() Frame {
	return s.trigger(func() {})
}

// Latest 返回最近发布的一帧。
func (s *Session) Latest() (Frame, bool) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if s.latest == nil {
		return Frame{}, false
	}
	return *s.latest, true
}

func (s *Session) trigger(update func()) Frame {
	s.mu.Lock()
	update()
	s.gen++
	gen := s.gen
	var img image.Image
	if s.image != nil {
		img = s.image.Image
	}
	lines := append([]string(nil), s.lines...)
	style, enc := s.style, s.enc
	s.mu.Unlock()

	res, err := s.renderer.Preview(img, lines, style, enc)
	return s.publish(Frame{Generation: gen, Result: res, Err: err})
}

func (s *Session) publish(f Frame) Frame {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if f.Generation <= s.published {
		f.Stale = true
		return f
	}
	s.published = f.Generation
	s.latest = &f
	if s.onFrame != nil {
		s.onFrame(f)
	}
	return f
}
