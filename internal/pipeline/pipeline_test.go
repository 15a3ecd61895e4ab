package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cinemetrics/internal/lake"
	"github.com/sells-group/cinemetrics/internal/model"
	"github.com/sells-group/cinemetrics/internal/normalize"
	"github.com/sells-group/cinemetrics/pkg/omdb"
)

func movie(title, rating, votes, runtime, box string) *model.MovieRecord {
	return &model.MovieRecord{
		Response:   "True",
		Title:      model.Text(title),
		Year:       model.Text("2010"),
		Genre:      model.Text("Drama"),
		Director:   model.Text("Someone"),
		ImdbRating: model.Text(rating),
		ImdbVotes:  model.Text(votes),
		Runtime:    model.Text(runtime),
		BoxOffice:  model.Text(box),
		Poster:     model.Text("N/A"),
	}
}

func absentErr(title string) error {
	return &omdb.AbsentError{Title: title, Reason: "Movie not found!"}
}

func TestRun_SkipsAbsentTitles(t *testing.T) {
	client := new(mockOMDbClient)
	client.On("Lookup", mock.Anything, "Inception").Return(movie("Inception", "8.8", "2,000", "148 min", "$1,000"), nil)
	client.On("Lookup", mock.Anything, "Nope").Return(nil, absentErr("Nope"))

	lk := new(mockLake)
	lk.On("Write", mock.Anything, mock.MatchedBy(func(tbl model.Table) bool {
		return tbl.Len() == 1 && tbl.Rows[0].Title == "Inception"
	})).Return("data_lake/cleaned_movie_data.csv", nil)

	p := New(client, lk, Options{})
	res, err := p.Run(context.Background(), []string{"Inception", "Nope"})

	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, []string{"Nope"}, res.Absent)
	assert.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Table.Len())
	assert.Equal(t, "data_lake/cleaned_movie_data.csv", res.Path)
	require.Len(t, res.Phases, 3)
	for _, ph := range res.Phases {
		assert.Equal(t, PhaseStatusComplete, ph.Status)
	}
	client.AssertExpectations(t)
	lk.AssertExpectations(t)
}

func TestRun_SequentialInOrder(t *testing.T) {
	var order []string
	client := new(mockOMDbClient)
	for _, title := range []string{"A", "B", "C"} {
		client.On("Lookup", mock.Anything, title).
			Run(func(args mock.Arguments) { order = append(order, args.String(1)) }).
			Return(movie(title, "7", "1", "90 min", "$1"), nil)
	}
	lk := new(mockLake)
	lk.On("Write", mock.Anything, mock.Anything).Return("p", nil)

	res, err := New(client, lk, Options{}).Run(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Equal(t, "A", res.Table.Rows[0].Title)
	assert.Equal(t, "C", res.Table.Rows[2].Title)
}

func TestRun_EmptyBatch(t *testing.T) {
	client := new(mockOMDbClient)
	client.On("Lookup", mock.Anything, mock.Anything).Return(nil, absentErr("x"))
	lk := new(mockLake)

	res, err := New(client, lk, Options{}).Run(context.Background(), []string{"x", "y"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyBatch)
	assert.Equal(t, []string{"x", "y"}, res.Absent)
	lk.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestRun_NoTitles(t *testing.T) {
	lk := new(mockLake)
	_, err := New(new(mockOMDbClient), lk, Options{}).Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
	lk.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestRun_StructuralFailureWritesNothing(t *testing.T) {
	bad := movie("Short", "6", "1", "10 min", "$1")
	bad.Director = model.Field{}

	client := new(mockOMDbClient)
	client.On("Lookup", mock.Anything, "Short").Return(bad, nil)
	lk := new(mockLake)

	res, err := New(client, lk, Options{}).Run(context.Background(), []string{"Short"})

	var se *normalize.StructuralError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, model.ColDirector, se.Column)
	assert.Empty(t, res.Path)
	assert.Equal(t, PhaseStatusFailed, res.Phases[len(res.Phases)-1].Status)
	lk.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestRun_StrictVotes(t *testing.T) {
	client := new(mockOMDbClient)
	client.On("Lookup", mock.Anything, "V").Return(movie("V", "6", "N/A", "10 min", "$1"), nil)
	lk := new(mockLake)

	_, err := New(client, lk, Options{}).Run(context.Background(), []string{"V"})
	var ce *normalize.CoercionError
	require.True(t, errors.As(err, &ce))
	lk.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)

	lk.On("Write", mock.Anything, mock.Anything).Return("p", nil)
	res, err := New(client, lk, Options{Normalize: normalize.Options{LenientVotes: true}}).
		Run(context.Background(), []string{"V"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Table.Len())
}

func TestRun_LookupErrorAborts(t *testing.T) {
	client := new(mockOMDbClient)
	client.On("Lookup", mock.Anything, "A").Return(nil, context.Canceled)
	lk := new(mockLake)

	_, err := New(client, lk, Options{}).Run(context.Background(), []string{"A", "B"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	client.AssertNotCalled(t, "Lookup", mock.Anything, "B")
}

func TestRun_WriteError(t *testing.T) {
	client := new(mockOMDbClient)
	client.On("Lookup", mock.Anything, "A").Return(movie("A", "7", "1", "90 min", "$1"), nil)
	lk := new(mockLake)
	lk.On("Write", mock.Anything, mock.Anything).Return("", errors.New("disk full"))

	_, err := New(client, lk, Options{}).Run(context.Background(), []string{"A"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

// End to end against a fake OMDb and a real lake directory.
func TestRun_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("t") != "Inception" {
			json.NewEncoder(w).Encode(map[string]string{"Response": "False", "Error": "Movie not found!"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"Title": "Inception", "Year": "2010", "Genre": "Action, Adventure, Sci-Fi",
			"Director": "Christopher Nolan", "imdbRating": "8.8", "imdbVotes": "2,612,345",
			"Runtime": "148 min", "BoxOffice": "$292,587,330", "Poster": "N/A", "Response": "True",
		})
	}))
	defer srv.Close()

	writer := lake.NewWriter(t.TempDir())
	p := New(omdb.NewClient("k", omdb.WithBaseURL(srv.URL)), writer, Options{})

	res, err := p.Run(context.Background(), ParseTitles("Inception, NotARealMovie123"))
	require.NoError(t, err)
	assert.Equal(t, []string{"NotARealMovie123"}, res.Absent)
	assert.Equal(t, writer.Path(), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "Inception,2010,"))
}
