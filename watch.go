package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ByLCY/cinestrip/compose"
	"github.com/ByLCY/cinestrip/preview"
)

// watch 轮询输入文件，任一文件变化时重新载入并渲染一帧预览，直到 ctx 结束。
// 预览模式下没有台词时输出原图而不是报错。
func watch(ctx context.Context, cfg config, composer *compose.Composer, interval time.Duration) error {
	if cfg.textPath == "-" {
		return fmt.Errorf("监视模式不支持从标准输入读取台词")
	}
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	var outPath string
	session := preview.NewSession(composer, preview.Options{
		OnFrame: func(f preview.Frame) {
			if f.Err != nil {
				slog.Warn("预览渲染失败", slog.Uint64("generation", f.Generation), slog.Any("error", f.Err))
				return
			}
			if err := writeOutput(outPath, f.Result.Data); err != nil {
				slog.Error("写入预览失败", "path", outPath, "error", err)
				return
			}
			slog.Info("预览已更新",
				slog.String("output", outPath),
				slog.Uint64("generation", f.Generation),
				slog.Int("lines", len(f.Result.Lines)),
			)
		},
	})

	slog.Info("开始监视输入文件", slog.Duration("interval", interval))
	stamps := map[string]fileStamp{}
	var imagePath string
	loaded := false
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if dirty := changed(stamps, cfg.scenePath, cfg.stylePath, cfg.textPath, imagePath); dirty || !loaded {
			loaded = true
			j, err := load(cfg)
			if err != nil {
				slog.Warn("载入输入失败", "error", err)
			} else {
				imagePath = j.imagePath
				stampOf(stamps, imagePath)
				outPath = j.outputPath
				session.Update(j.image, j.lines, j.style, j.enc)
			}
		} else if outputMissing(session, outPath) {
			slog.Info("预览文件已被删除，重新生成", slog.String("output", outPath))
			session.Render()
		}
		select {
		case <-ctx.Done():
			slog.Info("停止监视")
			return nil
		case <-ticker.C:
		}
	}
}

// outputMissing 在上一帧成功写出、但输出文件随后消失时返回 true。
func outputMissing(session *preview.Session, outPath string) bool {
	if outPath == "" {
		return false
	}
	f, ok := session.Latest()
	if !ok || f.Err != nil {
		return false
	}
	return !stat(outPath).exists
}

type fileStamp struct {
	modTime time.Time
	size    int64
	exists  bool
}

func stat(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size(), exists: true}
}

// stampOf 记录 path 的当前状态并返回它是否与上次不同。
func stampOf(stamps map[string]fileStamp, path string) bool {
	if path == "" {
		return false
	}
	cur := stat(path)
	prev, seen := stamps[path]
	stamps[path] = cur
	return !seen || prev != cur
}

// changed 检查全部路径，任一文件新增、删除或修改都返回 true。
func changed(stamps map[string]fileStamp, paths ...string) bool {
	dirty := false
	for _, p := range paths {
		if stampOf(stamps, p) {
			dirty = true
		}
	}
	return dirty
}
