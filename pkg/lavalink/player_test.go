package lavalink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayer(t *testing.T) (*Client, *Player, *fakeSocket, *fakeDispatcher) {
	t.Helper()

	client, dispatcher := newTestClient(t, 2)
	sock := markConnected(client.Nodes()[0])

	player, err := client.NewPlayer("guild-1")
	require.NoError(t, err)
	return client, player, sock, dispatcher
}

func TestPlayDequeuesWhenNoCurrentTrack(t *testing.T) {
	_, player, sock, _ := newTestPlayer(t)
	player.Queue().Add(track("a"), track("b"))

	require.NoError(t, player.Play(nil))

	require.NotNil(t, player.Current())
	assert.Equal(t, "a", player.Current().Info.Title)
	assert.Equal(t, []string{"b"}, titles(player.Queue().List()))
	assert.True(t, player.Playing())

	sent := sock.sent()
	require.Len(t, sent, 1)
	msg, ok := sent[0].(playMessage)
	require.True(t, ok)
	assert.Equal(t, "enc-a", msg.Track)
	assert.Equal(t, "guild-1", msg.GuildID)
}

func TestPlayFailsWithNothingToPlay(t *testing.T) {
	_, player, sock, _ := newTestPlayer(t)

	assert.ErrorIs(t, player.Play(nil), ErrNothingToPlay)
	assert.Empty(t, sock.sent())
}

func TestPlayKeepsCurrentWithTrackRepeat(t *testing.T) {
	_, player, sock, _ := newTestPlayer(t)
	player.Queue().Add(track("a"), track("b"))
	player.SetTrackLoop(true)

	require.NoError(t, player.Play(nil))
	require.NoError(t, player.Play(nil))

	// Track repeat only takes effect once a current track exists, so the
	// first play advances from the queue and the second replays it.
	assert.Equal(t, "a", player.Current().Info.Title)
	assert.Equal(t, []string{"b"}, titles(player.Queue().List()))

	sent := sock.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "enc-a", sent[1].(playMessage).Track)
}

func TestPlayAppliesOptions(t *testing.T) {
	_, player, sock, _ := newTestPlayer(t)
	player.Queue().Add(track("a"))

	require.NoError(t, player.Play(&PlayOptions{StartTime: 15_000, NoReplace: true}))

	msg := sock.sent()[0].(playMessage)
	assert.Equal(t, int64(15_000), msg.StartTime)
	assert.True(t, msg.NoReplace)
}

func TestSkipDropsQueueAndStops(t *testing.T) {
	tests := []struct {
		name     string
		amount   int
		wantLeft []string
	}{
		{name: "skip two", amount: 2, wantLeft: []string{"c"}},
		{name: "skip past the end", amount: 5, wantLeft: []string{}},
		{name: "skip defaults to one", amount: 0, wantLeft: []string{"b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, 1)
			sock := markConnected(client.Nodes()[0])

			player, err := client.NewPlayer("guild-1")
			require.NoError(t, err)

			player.Queue().Add(track("start"))
			require.NoError(t, player.Play(nil))
			player.Queue().Add(track("a"), track("b"), track("c"))

			require.NoError(t, player.Skip(tt.amount))
			assert.Equal(t, tt.wantLeft, titles(player.Queue().List()))

			sent := sock.sent()
			require.Len(t, sent, 2)
			assert.Equal(t, stopMessage{Op: opStop, GuildID: "guild-1"}, sent[1])
		})
	}
}

func TestSkipWhileNotPlayingIsNoop(t *testing.T) {
	_, player, sock, _ := newTestPlayer(t)
	player.Queue().Add(track("a"))

	require.NoError(t, player.Skip(1))
	assert.Equal(t, 1, player.Queue().Size())
	assert.Empty(t, sock.sent())
}

func TestPauseUpdatesFlagAndSends(t *testing.T) {
	_, player, sock, _ := newTestPlayer(t)

	require.NoError(t, player.Pause(true))
	assert.True(t, player.Paused())

	require.NoError(t, player.Pause(false))
	assert.False(t, player.Paused())

	sent := sock.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, pauseMessage{Op: opPause, GuildID: "guild-1", Pause: true}, sent[0])
	assert.Equal(t, pauseMessage{Op: opPause, GuildID: "guild-1", Pause: false}, sent[1])
}

func TestSeekSendsPosition(t *testing.T) {
	_, player, sock, _ := newTestPlayer(t)
	player.Queue().Add(track("a"))
	require.NoError(t, player.Play(nil))

	require.NoError(t, player.Seek(30_000))

	sent := sock.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, seekMessage{Op: opSeek, GuildID: "guild-1", Position: 30_000}, sent[1])
}

func TestSeekPastTrackEndSkipsInstead(t *testing.T) {
	_, player, sock, _ := newTestPlayer(t)
	player.Queue().Add(track("a"), track("b"))
	require.NoError(t, player.Play(nil))

	// track() builds 3-minute tracks; seek well past the end.
	require.NoError(t, player.Seek(500_000))

	sent := sock.sent()
	require.Len(t, sent, 2)
	assert.IsType(t, stopMessage{}, sent[1], "overlong seek must turn into a skip, not a seek")
	assert.Equal(t, []string{}, titles(player.Queue().List()))
}

func TestSeekValidation(t *testing.T) {
	_, player, sock, _ := newTestPlayer(t)

	// Not playing: silently ignored.
	require.NoError(t, player.Seek(1000))
	assert.Empty(t, sock.sent())

	player.Queue().Add(track("a"))
	require.NoError(t, player.Play(nil))
	assert.ErrorIs(t, player.Seek(-5), ErrInvalidSeekPosition)
}

func TestConnectRequiresNodeAndChannel(t *testing.T) {
	_, player, _, dispatcher := newTestPlayer(t)

	assert.ErrorIs(t, player.Connect(), ErrNoVoiceChannel)

	player.SetVoiceChannel("chan-1")
	player.SetSelfDeaf(true)
	require.NoError(t, player.Connect())
	assert.Equal(t, StateConnecting, player.State())

	calls := dispatcher.dispatched()
	require.Len(t, calls, 1)
	assert.Equal(t, voiceCall{GuildID: "guild-1", ChannelID: "chan-1", SelfDeaf: true}, calls[0])
}

func TestConnectIsDrivenToConnectedByUpdatePlayer(t *testing.T) {
	_, player, _, _ := newTestPlayer(t)
	player.SetVoiceChannel("chan-1")
	require.NoError(t, player.Connect())
	require.Equal(t, StateConnecting, player.State())

	// Connect itself never completes the transition; the node's report does.
	pos := int64(0)
	player.UpdatePlayer(PlayerState{Connected: true, Position: &pos})
	assert.Equal(t, StateConnected, player.State())

	player.UpdatePlayer(PlayerState{Connected: false})
	assert.Equal(t, StateDisconnected, player.State())
}

func TestDisconnectLeavesVoiceImmediately(t *testing.T) {
	_, player, _, dispatcher := newTestPlayer(t)
	player.SetVoiceChannel("chan-1")
	require.NoError(t, player.Connect())

	require.NoError(t, player.Disconnect())
	assert.Equal(t, StateDisconnected, player.State())

	calls := dispatcher.dispatched()
	require.Len(t, calls, 2)
	assert.Equal(t, "", calls[1].ChannelID, "leaving dispatches a null channel")

	// Already disconnected: no-op, no extra dispatch.
	require.NoError(t, player.Disconnect())
	assert.Len(t, dispatcher.dispatched(), 2)
}

func TestSendVoiceUpdateRequiresCredentials(t *testing.T) {
	_, player, sock, _ := newTestPlayer(t)

	assert.ErrorIs(t, player.SendVoiceUpdate(), ErrNoVoiceCredentials)

	player.SetVoiceSession("sess-1")
	assert.Empty(t, sock.sent(), "half a credential set must not be sent")

	player.SetVoiceServer("tok", "endpoint.example")

	sent := sock.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, voiceUpdateMessage{
		Op:        opVoiceUpdate,
		GuildID:   "guild-1",
		SessionID: "sess-1",
		Token:     "tok",
		Endpoint:  "endpoint.example",
	}, sent[0])
}

func TestExactPositionExtrapolatesMonotonically(t *testing.T) {
	_, player, _, _ := newTestPlayer(t)
	player.Queue().Add(track("a"))
	require.NoError(t, player.Play(nil))

	pos := int64(30_000)
	player.UpdatePlayer(PlayerState{Connected: true, Position: &pos})

	first := player.ExactPosition()
	time.Sleep(10 * time.Millisecond)
	second := player.ExactPosition()

	assert.GreaterOrEqual(t, first, int64(30_000))
	assert.GreaterOrEqual(t, second, first)
}

func TestExactPositionClampsToTrackLength(t *testing.T) {
	_, player, _, _ := newTestPlayer(t)
	player.Queue().Add(track("a"))
	require.NoError(t, player.Play(nil))

	pos := int64(179_999)
	player.UpdatePlayer(PlayerState{Connected: true, Position: &pos})
	time.Sleep(5 * time.Millisecond)

	assert.LessOrEqual(t, player.ExactPosition(), int64(180_000))
}

func TestExactPositionFrozenWhilePaused(t *testing.T) {
	_, player, _, _ := newTestPlayer(t)
	player.Queue().Add(track("a"))
	require.NoError(t, player.Play(nil))
	require.NoError(t, player.Pause(true))

	pos := int64(60_000)
	player.UpdatePlayer(PlayerState{Connected: true, Position: &pos})
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, int64(60_000), player.ExactPosition())
}

func TestMoveNodeValidatesTarget(t *testing.T) {
	client, player, _, _ := newTestPlayer(t)

	assert.ErrorIs(t, player.MoveNode(nil), ErrNodeUnavailable)

	// Second node is configured but never connected.
	assert.ErrorIs(t, player.MoveNode(client.Nodes()[1]), ErrNodeUnavailable)

	// Moving to the current node is a no-op.
	require.NoError(t, player.MoveNode(client.Nodes()[0]))
	assert.False(t, player.Moving())
}

func TestMoveNodePreservesPlayback(t *testing.T) {
	client, player, oldSock, _ := newTestPlayer(t)
	target := client.Nodes()[1]
	targetSock := markConnected(target)

	player.SetVoiceSession("sess-1")
	player.SetVoiceServer("tok", "endpoint.example")

	player.Queue().Add(track("a"), track("b"))
	require.NoError(t, player.Play(nil))

	pos := int64(42_000)
	player.UpdatePlayer(PlayerState{Connected: true, Position: &pos})

	require.NoError(t, player.MoveNode(target))

	assert.Equal(t, target.ID(), player.Node().ID())
	assert.False(t, player.Moving())
	assert.Equal(t, StateConnected, player.State())

	// Old node: voice update (from credential setup), play, then destroy.
	oldSent := oldSock.sent()
	assert.Equal(t, destroyMessage{Op: opDestroy, GuildID: "guild-1"}, oldSent[len(oldSent)-1])

	// New node: voice update first, then a play resuming from the recorded
	// position.
	targetSent := targetSock.sent()
	require.Len(t, targetSent, 2)
	assert.IsType(t, voiceUpdateMessage{}, targetSent[0])

	resume, ok := targetSent[1].(playMessage)
	require.True(t, ok)
	assert.Equal(t, "enc-a", resume.Track)
	assert.GreaterOrEqual(t, resume.StartTime, int64(42_000))
	assert.Less(t, resume.StartTime, int64(43_000))

	// Queue survived the migration.
	assert.Equal(t, []string{"b"}, titles(player.Queue().List()))
}

func TestMoveNodeWithoutPlaybackSkipsReplay(t *testing.T) {
	client, player, _, _ := newTestPlayer(t)
	target := client.Nodes()[1]
	targetSock := markConnected(target)

	require.NoError(t, player.MoveNode(target))

	assert.False(t, player.Moving())
	assert.Empty(t, targetSock.sent(), "nothing was playing, so nothing is re-issued")
}

func TestTrackEndBookkeeping(t *testing.T) {
	_, player, _, _ := newTestPlayer(t)
	player.Queue().Add(track("a"))
	require.NoError(t, player.Play(nil))

	player.handleTrackEnd(TrackEndFinished)
	assert.False(t, player.Playing())
	assert.Nil(t, player.Current())
}

func TestTrackEndWithQueueRepeatRequeues(t *testing.T) {
	_, player, _, _ := newTestPlayer(t)
	player.SetQueueLoop(true)
	player.Queue().Add(track("a"), track("b"))
	require.NoError(t, player.Play(nil))

	player.handleTrackEnd(TrackEndFinished)

	assert.Equal(t, []string{"b", "a"}, titles(player.Queue().List()))
}

func TestTrackEndReplacedKeepsState(t *testing.T) {
	_, player, _, _ := newTestPlayer(t)
	player.Queue().Add(track("a"))
	require.NoError(t, player.Play(nil))

	player.handleTrackEnd(TrackEndReplaced)
	assert.True(t, player.Playing())
	assert.NotNil(t, player.Current())
}

func TestTrackEndWithTrackRepeatKeepsCurrent(t *testing.T) {
	_, player, _, _ := newTestPlayer(t)
	player.SetTrackLoop(true)
	player.Queue().Add(track("a"))
	require.NoError(t, player.Play(nil))

	player.handleTrackEnd(TrackEndFinished)
	assert.False(t, player.Playing())
	require.NotNil(t, player.Current())
	assert.Equal(t, "a", player.Current().Info.Title)
}
