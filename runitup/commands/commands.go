package commands

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	Points,
	Leaderboard,
	MyTier,
	SubmitWin,
	SubmitReferral,
	ApplyScaler,
	AddPoints,
	RemovePoints,
	SetPoints,
	ViewUser,
	UpdateLeaderboard,
	PendingSubmissions,
}
