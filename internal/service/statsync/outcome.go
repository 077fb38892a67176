package statsync

// Video outcomes passed to Recorder.RecordVideo.
const (
	outcomeInserted = "inserted"
	outcomeUpdated  = "updated"
	outcomeError    = "error"
)

type archiveStatus string

// Archive outcomes passed to Recorder.RecordArchive. Skipped is never
// recorded: new videos have nothing to archive.
const (
	archiveSkipped archiveStatus = ""
	archiveStored  archiveStatus = "stored"
	archiveFailed  archiveStatus = "failed"
)

// archiveOutcome is the best-effort side result of archiving a snapshot.
type archiveOutcome struct {
	err    error
	status archiveStatus
}

// videoResult is the primary result of syncing one record. archive is
// reported alongside but never turns into err.
type videoResult struct {
	archive archiveOutcome
	err     error
	outcome string
}
