package gcp

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/seobrain/internal/platform/dbctx"
)

func TestMemoryBucketService(t *testing.T) {
	ctx := context.Background()
	var bs BucketService = NewMemoryBucketService("")
	dbc := dbctx.Background(ctx)

	for _, k := range []string{"hero/austin.jpg", "hero/dallas.jpg", "main/cards.jpg"} {
		if err := bs.UploadFile(dbc, BucketCategoryImage, k, strings.NewReader(k)); err != nil {
			t.Fatalf("UploadFile(%s): %v", k, err)
		}
	}
	if err := bs.UploadFile(dbc, BucketCategorySocialCard, "hero/x.png", strings.NewReader("card")); err != nil {
		t.Fatalf("UploadFile card: %v", err)
	}

	keys, err := bs.ListKeys(ctx, BucketCategoryImage, "hero/")
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	if diff := cmp.Diff([]string{"hero/austin.jpg", "hero/dallas.jpg"}, keys); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}

	rc, err := bs.DownloadFile(ctx, BucketCategoryImage, "main/cards.jpg")
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "main/cards.jpg" {
		t.Fatalf("download: got=%q", b)
	}

	n, err := bs.DeletePrefix(ctx, BucketCategoryImage, "hero/")
	if err != nil || n != 2 {
		t.Fatalf("DeletePrefix: want=2 got=%d err=%v", n, err)
	}
	if _, err := bs.DownloadFile(ctx, BucketCategorySocialCard, "hero/x.png"); err != nil {
		t.Fatalf("other category must survive: %v", err)
	}
	if got := bs.GetPublicURL(BucketCategoryImage, "main/cards.jpg"); got != "memory://seobrain/image/main/cards.jpg" {
		t.Fatalf("public url: got=%q", got)
	}
}
