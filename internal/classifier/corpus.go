package classifier

// bootstrapSample is one hand-labeled training example
type bootstrapSample struct {
	Text     string
	Phishing int
}

// bootstrapCorpus is the fixed labeled corpus used to train a fresh model
// when no persisted artifact exists. It is intentionally small: the goal is
// a usable classifier without an external training step, not accuracy.
// Because the corpus is fixed and training is deterministic, concurrent
// bootstrap runs produce identical artifacts and may overwrite each other
// safely.
var bootstrapCorpus = []bootstrapSample{
	{"Dear user, your account has been suspended. Click here to verify.", 1},
	{"Urgent: Your password needs to be reset immediately.", 1},
	{"Congratulations! You've won a prize. Click to claim.", 1},
	{"Please find attached the invoice for your recent purchase.", 0},
	{"Your package has been shipped. Track it here.", 0},
	{"Meeting scheduled for tomorrow at 10 AM.", 0},
	{"Security alert: unusual login attempt detected.", 1},
	{"Your Netflix account needs verification.", 1},
	{"Bank account alert: Please confirm your identity.", 1},
	{"Hi, when is the project deadline?", 0},
}
