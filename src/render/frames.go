package render

import (
	"PopulationPyramid/src/datasource/file"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// RenderAll 用固定大小的协程池渲染所有帧, 第 i 个日期写到 i 号文件
// 任一帧失败时取消其余帧并返回第一个错误
func (r *Renderer) RenderAll(ctx context.Context, ds *Dataset, dates []time.Time) error {
	if err := file.EnsureDir(r.dir); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, d := range dates {
		if gctx.Err() != nil {
			break
		}
		frame := ds.Frame(i, d)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := r.FramePath(frame.Index)
			if err := r.RenderFrame(frame, path); err != nil {
				return fmt.Errorf("render %s: %w", path, err)
			}
			r.logger.Info("Saved " + path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// HoldLastFrame 把第 n-1 帧复制为 n .. n+hold-1 帧, 让动画停在最后一个月
func (r *Renderer) HoldLastFrame(n, hold int) error {
	if n < 1 {
		return fmt.Errorf("no frames to hold")
	}
	last := r.FramePath(n - 1)
	data, err := os.ReadFile(last)
	if err != nil {
		return err
	}

	for i := 0; i < hold; i++ {
		dst := r.FramePath(n + i)
		r.logger.Info(fmt.Sprintf("Copying %s to %s", last, dst))
		err := file.WriteAtomic(dst, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
		if err != nil {
			return err
		}
	}
	r.logger.Info("All done!")
	return nil
}
