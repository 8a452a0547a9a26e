// File /ui/render.go
package ui

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"hexxagon/internal/game"
)

const (
	// 窗口尺寸
	WindowWidth  = 800
	WindowHeight = 600
	// 顶部状态栏高度
	headerHeight = 60
	// 六边形外接圆半径（平顶）
	hexRadius = 32.0
)

var (
	colBackground = color.RGBA{0x14, 0x16, 0x1c, 0xff}
	colCell       = color.RGBA{0x3a, 0x2f, 0x5b, 0xff}
	colCellEdge   = color.RGBA{0x8c, 0x7a, 0xc6, 0xff}
	colAdd        = color.RGBA{0x3c, 0xb3, 0x4a, 0xff} // 复制：绿色
	colTransfer   = color.RGBA{0xe0, 0xc0, 0x30, 0xff} // 跳跃：黄色
	colSelected   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colWhite      = color.White

	pieceColors = map[game.CellState]color.RGBA{
		game.PlayerA: {0xd0, 0x30, 0x30, 0xff}, // 红
		game.PlayerB: {0xf0, 0xf0, 0xf0, 0xff}, // 白
	}
)

// cellCenters 每个格子中心在窗口中的像素坐标
var cellCenters [game.BoardN][2]float64

func init() {
	tallest := 0
	for c := 0; c < game.NumColumns; c++ {
		tallest = max(tallest, game.ColumnHeight(c))
	}
	vs := hexRadius * math.Sqrt(3) // 同列相邻格的竖直间距
	boardW := 1.5*hexRadius*float64(game.NumColumns-1) + 2*hexRadius
	boardH := vs * float64(tallest)
	originX := (WindowWidth-boardW)/2 + hexRadius
	originY := headerHeight + (WindowHeight-headerHeight-boardH)/2 + vs/2

	for i := 0; i < game.BoardN; i++ {
		col, row := game.CellPosition(i)
		// 较矮的列向下错开半格的整数倍，保持居中
		shift := float64(tallest-game.ColumnHeight(col)) / 2
		cellCenters[i][0] = originX + 1.5*hexRadius*float64(col)
		cellCenters[i][1] = originY + vs*(float64(row)+shift)
	}
}

// CellCenter returns the pixel center of cell i.
func CellCenter(i int) (x, y float64) {
	return cellCenters[i][0], cellCenters[i][1]
}

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// solid 返回一个 1×1 的白色贴图，DrawTriangles 用它作为纹理
func solid() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

func hexPath(cx, cy, r float32) *vector.Path {
	var p vector.Path
	for k := 0; k < 6; k++ {
		a := float64(k) * math.Pi / 3
		x := cx + r*float32(math.Cos(a))
		y := cy + r*float32(math.Sin(a))
		if k == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
	return &p
}

// drawHex 填充一个平顶六边形并描边
func drawHex(dst *ebiten.Image, i int, fill color.RGBA) {
	cx, cy := float32(cellCenters[i][0]), float32(cellCenters[i][1])
	r := float32(hexRadius - 1)
	vs, is := hexPath(cx, cy, r).AppendVerticesAndIndicesForFilling(nil, nil)
	for j := range vs {
		vs[j].SrcX, vs[j].SrcY = 1, 1
		vs[j].ColorR = float32(fill.R) / 0xff
		vs[j].ColorG = float32(fill.G) / 0xff
		vs[j].ColorB = float32(fill.B) / 0xff
		vs[j].ColorA = float32(fill.A) / 0xff
	}
	dst.DrawTriangles(vs, is, solid(), &ebiten.DrawTrianglesOptions{AntiAlias: true})

	for k := 0; k < 6; k++ {
		a0 := float64(k) * math.Pi / 3
		a1 := float64(k+1) * math.Pi / 3
		vector.StrokeLine(dst,
			cx+r*float32(math.Cos(a0)), cy+r*float32(math.Sin(a0)),
			cx+r*float32(math.Cos(a1)), cy+r*float32(math.Sin(a1)),
			1.5, colCellEdge, true)
	}
}

// drawPiece 在 (x, y) 处画一枚棋子，scale 用于动画中的缩放
func drawPiece(dst *ebiten.Image, x, y float64, clr color.Color, scale float64) {
	r := float32(hexRadius * 0.6 * scale)
	if r <= 0 {
		return
	}
	vector.DrawFilledCircle(dst, float32(x), float32(y), r, clr, true)
	vector.StrokeCircle(dst, float32(x), float32(y), r, 2, colBackground, true)
}

// drawBoard 在 dst 上绘制棋盘、提示和棋子
func (gs *GameScreen) drawBoard(dst *ebiten.Image, f frame) {
	// 1) 棋盘底板，洞不画
	for i := 0; i < game.BoardN; i++ {
		if f.board[i] == game.Blocked {
			continue
		}
		fill := colCell
		switch {
		case contains(f.add, i):
			fill = colAdd
		case contains(f.transfer, i):
			fill = colTransfer
		}
		drawHex(dst, i, fill)
	}

	// 2) 选中的棋子
	if f.selected >= 0 {
		x, y := CellCenter(f.selected)
		vector.StrokeCircle(dst, float32(x), float32(y), float32(hexRadius*0.75), 3, colSelected, true)
	}

	// 3) 静止的棋子
	for i, s := range f.board {
		if !s.IsPlayer() {
			continue
		}
		x, y := CellCenter(i)
		drawPiece(dst, x, y, pieceColors[s], 1)
	}

	// 4) 动画棋子（覆盖最上层）
	if gs.anim != nil {
		gs.anim.draw(dst)
	}
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
