package validate

import _ "embed"

//go:embed schemas/tasks_document.cue
var tasksDocumentSchemaSrc string

//go:embed schemas/archive_document.cue
var archiveDocumentSchemaSrc string

//go:embed schemas/session.cue
var sessionsDocumentSchemaSrc string
