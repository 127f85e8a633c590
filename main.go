package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ByLCY/cinestrip/binding"
	"github.com/ByLCY/cinestrip/compose"
	"github.com/ByLCY/cinestrip/layout"
	canvasrenderer "github.com/ByLCY/cinestrip/renderer/canvas"
	"github.com/ByLCY/cinestrip/scene"
	"github.com/ByLCY/cinestrip/source"
)

func main() {
	input := flag.String("in", "", "场景文件路径（.scene）")
	imagePath := flag.String("image", "", "原图路径，覆盖场景文件中的 image")
	textPath := flag.String("text", "", "台词文件路径，每行一句；- 表示标准输入")
	stylePath := flag.String("style", "", "YAML 样式预设路径")
	dataJSON := flag.String("data", "", "绑定到台词 ${} 占位符的 JSON 数据")
	output := flag.String("out", "", "输出路径，默认 output/cinematic-scene.jpg")
	format := flag.String("format", "", "输出格式 jpeg|png，默认按输出扩展名推断")
	quality := flag.Int("quality", compose.DefaultQuality, "JPEG 编码质量 1-100")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	watchMode := flag.Bool("watch", false, "监视输入文件，变化时重新生成预览")
	interval := flag.Duration("interval", 500*time.Millisecond, "监视模式的轮询间隔")
	fontFlags := fontList{}
	flag.Var(fontFlags, "font", "注册字体 Name=path，可重复；path 可写 embed:<内置字体>")
	styleFlags := map[string]*string{}
	for _, key := range scene.StyleKeys {
		usage := "样式覆盖: " + key
		if key == scene.KeySubtitleHeight || key == scene.KeyFontSize {
			usage += "（整数按百分比，5 即 5%；也可写 5% 或 0.05）"
		}
		styleFlags[key] = flag.String(key, "", usage)
	}
	flag.Parse()

	cfg := config{
		scenePath:  *input,
		imagePath:  *imagePath,
		textPath:   *textPath,
		stylePath:  *stylePath,
		outputPath: *output,
		format:     *format,
		quality:    *quality,
		debugPath:  *debug,
		stdin:      os.Stdin,
		overrides:  map[string]string{},
	}
	flag.Visit(func(f *flag.Flag) {
		if p, ok := styleFlags[f.Name]; ok {
			cfg.overrides[f.Name] = *p
		}
		if f.Name == "quality" {
			cfg.qualitySet = true
		}
	})
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &cfg.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	composer := compose.New(canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Fonts: fontFlags}))

	if *watchMode {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := watch(ctx, cfg, composer, *interval); err != nil {
			log.Fatalf("监视模式退出: %v", err)
		}
		return
	}

	out, err := run(cfg, composer)
	if err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	fmt.Printf("已生成：%s\n", out)
}

// config 汇总命令行参数。样式按 默认值 → YAML 预设 → 场景文件 → 显式参数 逐层覆盖。
type config struct {
	scenePath  string
	imagePath  string
	textPath   string
	stylePath  string
	outputPath string
	format     string
	quality    int
	qualitySet bool
	debugPath  string
	data       any
	overrides  map[string]string
	stdin      io.Reader
}

// job 是一次生成所需的全部输入。
type job struct {
	image      *source.Image
	imagePath  string
	lines      []string
	style      scene.StyleOptions
	enc        compose.EncodeOptions
	outputPath string
}

// run 串联载入、合成与写出，返回输出路径。
func run(cfg config, composer *compose.Composer) (string, error) {
	if composer == nil {
		return "", fmt.Errorf("composer 不能为空")
	}
	j, err := load(cfg)
	if err != nil {
		return "", err
	}
	result, err := composer.Generate(imageOf(j.image), j.lines, j.style, j.enc)
	if err != nil {
		return "", fmt.Errorf("合成失败: %w", err)
	}
	if cfg.debugPath != "" {
		if err := writeDebug(result.Plan, cfg.debugPath); err != nil {
			return "", err
		}
	}
	if err := writeOutput(j.outputPath, result.Data); err != nil {
		return "", err
	}
	slog.Info("合成完成",
		slog.String("output", j.outputPath),
		slog.Int("lines", len(result.Lines)),
		slog.Int("width", result.Image.Bounds().Dx()),
		slog.Int("height", result.Image.Bounds().Dy()),
	)
	return j.outputPath, nil
}

// load 读取全部输入文件并合并配置层。
func load(cfg config) (*job, error) {
	style := scene.DefaultStyle()
	if cfg.stylePath != "" {
		preset, err := scene.LoadPreset(cfg.stylePath)
		if err != nil {
			return nil, err
		}
		if style, err = preset.Apply(style); err != nil {
			return nil, err
		}
	}

	j := &job{style: style}
	var sceneOut scene.Output
	if cfg.scenePath != "" {
		sc, err := scene.LoadFile(cfg.scenePath, style)
		if err != nil {
			return nil, err
		}
		j.style = sc.Style
		j.imagePath = sc.ImagePath
		j.lines = sc.Lines
		sceneOut = sc.Output
		if sceneOut.File != "" && !filepath.IsAbs(sceneOut.File) {
			sceneOut.File = filepath.Join(filepath.Dir(cfg.scenePath), sceneOut.File)
		}
	}

	if cfg.imagePath != "" {
		j.imagePath = cfg.imagePath
	}
	if cfg.textPath != "" {
		raw, err := readText(cfg.textPath, cfg.stdin)
		if err != nil {
			return nil, err
		}
		j.lines = scene.SplitLines(raw)
	}
	for _, key := range scene.StyleKeys {
		if v, ok := cfg.overrides[key]; ok {
			if err := j.style.Set(key, v); err != nil {
				return nil, fmt.Errorf("参数 -%s: %w", key, err)
			}
		}
	}
	j.lines = binding.Lines(scene.CleanLines(j.lines), cfg.data)

	if j.imagePath != "" {
		img, err := source.Load(j.imagePath)
		if err != nil {
			return nil, err
		}
		j.image = img
	}

	enc, err := encodeOptions(cfg, sceneOut)
	if err != nil {
		return nil, err
	}
	j.enc = enc
	j.outputPath = cfg.outputPath
	if j.outputPath == "" {
		j.outputPath = sceneOut.File
	}
	if j.outputPath == "" {
		j.outputPath = filepath.Join("output", enc.Filename())
	}
	return j, nil
}

// encodeOptions 决定输出格式：-format 优先，其次场景文件，再次输出扩展名，最后默认 JPEG。
func encodeOptions(cfg config, sceneOut scene.Output) (compose.EncodeOptions, error) {
	enc := compose.DefaultEncodeOptions()

	name := cfg.format
	if name == "" {
		name = sceneOut.Format
	}
	if name == "" {
		for _, path := range []string{cfg.outputPath, sceneOut.File} {
			if f, ok := compose.FormatFromPath(path); ok {
				name = f
				break
			}
		}
	}
	f, err := compose.ParseFormat(name)
	if err != nil {
		return enc, err
	}
	enc.Format = f

	switch {
	case cfg.qualitySet:
		enc.Quality = cfg.quality
	case sceneOut.Quality > 0:
		enc.Quality = sceneOut.Quality
	}
	if enc.Quality < 1 || enc.Quality > 100 {
		return enc, fmt.Errorf("无效的输出质量 %d", enc.Quality)
	}
	return enc, nil
}

func readText(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		if stdin == nil {
			return "", fmt.Errorf("标准输入不可用")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取台词文件 %s 失败: %w", path, err)
	}
	return string(data), nil
}

func imageOf(img *source.Image) image.Image {
	if img == nil {
		return nil
	}
	return img.Image
}

// writeOutput 先写临时文件再改名，预览程序不会读到写了一半的图片。
func writeOutput(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("设置输出文件权限失败: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(plan layout.Plan, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(plan, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// fontList 收集可重复的 -font Name=path 参数。
type fontList map[string]canvasrenderer.Resource

func (f fontList) String() string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	return strings.Join(names, ",")
}

func (f fontList) Set(value string) error {
	name, path, ok := strings.Cut(value, "=")
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if !ok || name == "" || path == "" {
		return fmt.Errorf("字体参数应为 Name=path，实际 %q", value)
	}
	f[name] = canvasrenderer.Resource{Path: path}
	return nil
}
