package lavalink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// LoadType classifies a track-loading response.
type LoadType string

const (
	LoadTypeTrackLoaded    LoadType = "TRACK_LOADED"
	LoadTypePlaylistLoaded LoadType = "PLAYLIST_LOADED"
	LoadTypeSearchResult   LoadType = "SEARCH_RESULT"
	LoadTypeNoMatches      LoadType = "NO_MATCHES"
	LoadTypeLoadFailed     LoadType = "LOAD_FAILED"
)

// PlaylistInfo describes the playlist a load result came from, if any.
type PlaylistInfo struct {
	Name          string `json:"name"`
	SelectedTrack int    `json:"selectedTrack"`
}

// LoadResult is the node's answer to a track-loading request.
type LoadResult struct {
	LoadType     LoadType     `json:"loadType"`
	PlaylistInfo PlaylistInfo `json:"playlistInfo"`
	Tracks       []Track      `json:"tracks"`
	Exception    *struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
	} `json:"exception,omitempty"`
}

// LoadTracks asks the node to resolve an identifier (a URL, or a search
// prefix the node understands, e.g. "ytsearch:...") into playable tracks.
// This is plain request/response over the node's HTTP address, separate from
// the persistent connection.
func (n *Node) LoadTracks(ctx context.Context, identifier string) (*LoadResult, error) {
	endpoint := fmt.Sprintf("%s/loadtracks?identifier=%s", n.restAddr(), url.QueryEscape(identifier))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", n.cfg.Password)

	resp, err := n.rest.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load tracks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("load tracks: node returned status %d", resp.StatusCode)
	}

	var result LoadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("load tracks: decode response: %w", err)
	}

	if result.LoadType == LoadTypeLoadFailed {
		msg := "unknown"
		if result.Exception != nil {
			msg = result.Exception.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrLoadFailed, msg)
	}
	return &result, nil
}
