package storage

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores blobs in a Cloudinary folder and returns the secure URL.
// Used for images when CLOUDINARY_URL is configured.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryFromEnv(folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		return nil, err
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (s *Cloudinary) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	// Cloudinary derives the format itself; strip the extension from the id
	publicID := name
	if i := strings.LastIndex(publicID, "."); i > 0 {
		publicID = publicID[:i]
	}

	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       publicID,
		Transformation: "c_limit,w_1200,h_1200,q_auto",
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
