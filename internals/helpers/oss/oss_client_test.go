package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildObjectKey(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	key := buildObjectKey("learnx/", "assignments/Week 1", "Lab Sheet.PDF", now)

	assert.Regexp(t, `^learnx/assignments/week-1/lab-sheet_20240301_093000_[0-9a-f]{6}\.pdf$`, key)
}

func TestPublicURLAndExtractKey(t *testing.T) {
	s := &OSSService{Endpoint: "https://oss-ap-southeast-5.aliyuncs.com", BucketName: "learnx"}
	url := s.PublicURL("courses/a.webp")
	assert.Equal(t, "https://learnx.oss-ap-southeast-5.aliyuncs.com/courses/a.webp", url)

	key, err := ExtractKeyFromPublicURL(url, "")
	require.NoError(t, err)
	assert.Equal(t, "courses/a.webp", key)

	s.PublicBase = "https://cdn.learnx.test/"
	url = s.PublicURL("courses/a.webp")
	assert.Equal(t, "https://cdn.learnx.test/courses/a.webp", url)
	key, err = ExtractKeyFromPublicURL(url, s.PublicBase)
	require.NoError(t, err)
	assert.Equal(t, "courses/a.webp", key)

	_, err = ExtractKeyFromPublicURL("", "")
	assert.Error(t, err)
	_, err = ExtractKeyFromPublicURL("https://host-only", "")
	assert.Error(t, err)
}
