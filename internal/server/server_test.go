package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeWise2718/fish-scales-sub003/internal/scaleimage"
	"github.com/MikeWise2718/fish-scales-sub003/internal/session"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

func newTestServer(t *testing.T, w, h int) (*httptest.Server, *session.Session) {
	t.Helper()
	sess := session.New()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{20, 20, 20, 255})
		}
	}
	sess.SetDocument(scaleimage.FromImage(img, "test.png"))
	ts := httptest.NewServer(New(sess).Handler())
	t.Cleanup(ts.Close)
	return ts, sess
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string, into any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	return resp
}

func TestCalibrationEndpoints(t *testing.T) {
	ts, _ := newTestServer(t, 100, 100)

	var before calibrationResponse
	getJSON(t, ts.URL+"/api/calibration", &before)
	assert.Nil(t, before.Calibration, "uncalibrated session reports null")

	resp := postJSON(t, ts.URL+"/api/calibration", `{"um_per_px": 0.14, "method": "scale_bar"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var after calibrationResponse
	getJSON(t, ts.URL+"/api/calibration", &after)
	require.NotNil(t, after.Calibration)
	assert.InDelta(t, 0.14, after.Calibration.UmPerPx, 1e-9)
	assert.Equal(t, "scale_bar", after.Calibration.Method)

	resp = postJSON(t, ts.URL+"/api/calibration", `{"um_per_px": 0.5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	getJSON(t, ts.URL+"/api/calibration", &after)
	require.NotNil(t, after.Calibration)
	assert.Equal(t, "direct", after.Calibration.Method, "method omitted defaults to direct")
}

func TestCalibrationRejectsInvalidInput(t *testing.T) {
	ts, sess := newTestServer(t, 100, 100)

	for _, body := range []string{
		`{}`,
		`{"um_per_px": -1}`,
		`{"um_per_px": 0.5, "method": "guesswork"}`,
		`not json`,
	} {
		resp := postJSON(t, ts.URL+"/api/calibration", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)

		var e map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.NotEmpty(t, e["error"])
	}
	assert.False(t, sess.Calibration().Calibrated(), "failed requests leave the session untouched")
}

func TestRotateEndpoint(t *testing.T) {
	ts, sess := newTestServer(t, 100, 200)

	resp := postJSON(t, ts.URL+"/api/rotate", `{"direction": "right"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var dims imageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dims))
	assert.Equal(t, rawImagePath, dims.URL)
	assert.Equal(t, 200, dims.Width)
	assert.Equal(t, 100, dims.Height)
	assert.Equal(t, 200, sess.Document().Width())

	resp = postJSON(t, ts.URL+"/api/rotate", `{"direction": "sideways"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 200, sess.Document().Width(), "invalid direction changes nothing")
}

func TestCropEndpoint(t *testing.T) {
	ts, sess := newTestServer(t, 200, 200)
	set := sess.Sets().Active()
	_, err := set.AddNode(geometry.NewPoint2D(100, 100), 10, 1, false)
	require.NoError(t, err)

	resp := postJSON(t, ts.URL+"/api/crop", `{"x": 50, "y": 50, "width": 100, "height": 100}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 100, sess.Document().Width())
	assert.Equal(t, 1, set.NodeCount())

	// Below the minimum selection size.
	resp = postJSON(t, ts.URL+"/api/crop", `{"x": 0, "y": 0, "width": 5, "height": 5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 100, sess.Document().Width())
}

func TestAutocropEndpoint(t *testing.T) {
	ts, sess := newTestServer(t, 400, 300)
	img := sess.Image().(*image.RGBA)
	for y := 80; y < 220; y++ {
		for x := 100; x < 300; x++ {
			img.Set(x, y, color.RGBA{230, 230, 230, 255})
		}
	}
	set := sess.Sets().Active()
	_, err := set.AddNode(geometry.NewPoint2D(150, 150), 10, 1, false)
	require.NoError(t, err)

	resp := postJSON(t, ts.URL+"/api/autocrop", `{}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res autocropResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, rawImagePath, res.URL)
	assert.Positive(t, res.Region.Width)
	assert.Zero(t, set.NodeCount(), "automated crop clears annotation content")
}

func TestImageEndpoints(t *testing.T) {
	ts, _ := newTestServer(t, 120, 80)

	var dims imageResponse
	resp := getJSON(t, ts.URL+"/api/image", &dims)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, rawImagePath, dims.URL)
	assert.Equal(t, 120, dims.Width)
	assert.Equal(t, 80, dims.Height)

	raw, err := http.Get(ts.URL + dims.URL)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, "image/png", raw.Header.Get("Content-Type"))
	decoded, err := png.Decode(raw.Body)
	require.NoError(t, err)
	assert.Equal(t, 120, decoded.Bounds().Dx())
}

func TestStatsEndpoint(t *testing.T) {
	ts, sess := newTestServer(t, 200, 200)
	set := sess.Sets().Active()
	for i := 0; i < 5; i++ {
		_, err := set.AddNode(geometry.NewPoint2D(float64(i)*30, 0), 10, 1, false)
		require.NoError(t, err)
	}

	var summary map[string]any
	resp := getJSON(t, ts.URL+"/api/stats", &summary)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 5, summary["node_count"])
	assert.Equal(t, "low", summary["reliability"])
}

func TestLogEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, 100, 200)
	postJSON(t, ts.URL+"/api/rotate", `{"direction": "left"}`)

	var events []session.Event
	resp := getJSON(t, ts.URL+"/api/log", &events)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, "rotate", last.EventType)
	assert.Equal(t, "left", last.Details)
	assert.False(t, last.Timestamp.IsZero())
}
