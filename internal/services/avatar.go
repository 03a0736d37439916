package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/codeforma/codeforma-backend/internal/platform/media"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// AvatarService renders initials avatars for new accounts and processes
// uploaded profile images. Output lands in the media store and the user row
// only carries the public URL.
type AvatarService interface {
	CreateUserAvatar(ctx context.Context, user *types.User) error
	CreateUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error
	GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	log      *logger.Logger
	store    media.Store
	palette  []color.NRGBA
	fontFace font.Face
}

// defaultPalette backs avatars when a user has no stored color. Chosen per
// user by name hash so the same user always renders the same background.
var defaultPalette = []color.NRGBA{
	{R: 0x2D, G: 0x6A, B: 0x4F, A: 0xFF},
	{R: 0x1D, G: 0x35, B: 0x57, A: 0xFF},
	{R: 0x7F, G: 0x2C, B: 0xCB, A: 0xFF},
	{R: 0xB5, G: 0x43, B: 0x1C, A: 0xFF},
	{R: 0x0F, G: 0x76, B: 0x8E, A: 0xFF},
	{R: 0x8E, G: 0x24, B: 0x3B, A: 0xFF},
}

func NewAvatarService(log *logger.Logger, store media.Store) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT is empty")
	}
	serviceLog.Info("Loading avatar font", "font", fontPath)

	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		log:      serviceLog,
		store:    store,
		palette:  defaultPalette,
		fontFace: face,
	}, nil
}

func (as *avatarService) CreateUserAvatar(ctx context.Context, user *types.User) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}

	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return err
	}

	return as.publish(ctx, user, buf.Bytes())
}

func (as *avatarService) CreateUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}

	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return err
	}

	return as.publish(ctx, user, processed.Bytes())
}

// publish stores the avatar under a versioned key so browsers and CDNs never
// serve a stale cached object, then best-effort deletes the previous one.
func (as *avatarService) publish(ctx context.Context, user *types.User, png []byte) error {
	oldURL := strings.TrimSpace(user.AvatarURL)

	newKey := fmt.Sprintf("%s/%d.png", user.ID.String(), time.Now().UnixNano())
	if err := as.store.Save(ctx, media.CategoryAvatar, newKey, bytes.NewReader(png)); err != nil {
		return fmt.Errorf("failed to store user avatar: %w", err)
	}
	user.AvatarURL = as.store.PublicURL(media.CategoryAvatar, newKey)

	if oldURL != "" && oldURL != user.AvatarURL {
		if oldKey, ok := avatarKeyFromURL(oldURL); ok {
			if err := as.store.Delete(ctx, media.CategoryAvatar, oldKey); err != nil {
				as.log.Warn("failed to delete old avatar (ignored)", "key", oldKey, "error", err)
			}
		}
	}
	return nil
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
	const size = 512

	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	base := as.pickColor(user.FirstName + user.LastName)
	dc.SetColor(base)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(user.FirstName, user.LastName)

	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square.
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func (as *avatarService) pickColor(seed string) color.NRGBA {
	if len(as.palette) == 0 {
		return color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(seed))))
	return as.palette[int(h.Sum32())%len(as.palette)]
}

func computeInitials(first, last string) string {
	fInit := "?"
	if len(first) > 0 {
		fInit = strings.ToUpper(first[:1])
	}
	lInit := "?"
	if len(last) > 0 {
		lInit = strings.ToUpper(last[:1])
	}
	return fInit + lInit
}

func avatarKeyFromURL(url string) (string, bool) {
	marker := "/" + string(media.CategoryAvatar) + "/"
	idx := strings.LastIndex(url, marker)
	if idx < 0 {
		return "", false
	}
	key := url[idx+len(marker):]
	if key == "" {
		return "", false
	}
	return key, true
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
