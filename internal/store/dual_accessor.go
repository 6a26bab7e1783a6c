package store

import (
	"context"
	"log/slog"

	"github.com/cleo-run/cleo/internal/model"
)

// DualAccessor writes to both a primary (embedded) and secondary (file)
// Accessor and reads from the primary, falling back to the secondary and
// logging the discrepancy on failure — the "dual-write" back-end spec.md
// §4.2 names. Nothing selects it from the project config: the CLI always
// builds a FileAccessor.
type DualAccessor struct {
	primary   Accessor
	secondary Accessor
	log       *slog.Logger
}

// NewDualAccessor returns a DualAccessor preferring primary for reads.
func NewDualAccessor(primary, secondary Accessor, log *slog.Logger) *DualAccessor {
	if log == nil {
		log = slog.Default()
	}
	return &DualAccessor{primary: primary, secondary: secondary, log: log}
}

var _ Accessor = (*DualAccessor)(nil)

func (d *DualAccessor) LoadTasks(ctx context.Context) (*model.TasksDocument, error) {
	doc, err := d.primary.LoadTasks(ctx)
	if err == nil {
		return doc, nil
	}
	d.log.Warn("dual accessor: primary load failed, falling back to secondary", "op", "LoadTasks", "err", err)
	return d.secondary.LoadTasks(ctx)
}

func (d *DualAccessor) SaveTasks(ctx context.Context, doc *model.TasksDocument) error {
	errPrimary := d.primary.SaveTasks(ctx, doc)
	errSecondary := d.secondary.SaveTasks(ctx, doc)
	if errPrimary != nil {
		d.log.Warn("dual accessor: primary save failed", "op", "SaveTasks", "err", errPrimary)
	}
	if errSecondary != nil {
		d.log.Warn("dual accessor: secondary save failed", "op", "SaveTasks", "err", errSecondary)
	}
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) LoadArchive(ctx context.Context) (*model.ArchiveDocument, error) {
	doc, err := d.primary.LoadArchive(ctx)
	if err == nil {
		return doc, nil
	}
	d.log.Warn("dual accessor: primary load failed, falling back to secondary", "op", "LoadArchive", "err", err)
	return d.secondary.LoadArchive(ctx)
}

func (d *DualAccessor) SaveArchive(ctx context.Context, doc *model.ArchiveDocument) error {
	errPrimary := d.primary.SaveArchive(ctx, doc)
	errSecondary := d.secondary.SaveArchive(ctx, doc)
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) LoadSessions(ctx context.Context) (*model.SessionsDocument, error) {
	doc, err := d.primary.LoadSessions(ctx)
	if err == nil {
		return doc, nil
	}
	d.log.Warn("dual accessor: primary load failed, falling back to secondary", "op", "LoadSessions", "err", err)
	return d.secondary.LoadSessions(ctx)
}

func (d *DualAccessor) SaveSessions(ctx context.Context, doc *model.SessionsDocument) error {
	errPrimary := d.primary.SaveSessions(ctx, doc)
	errSecondary := d.secondary.SaveSessions(ctx, doc)
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) AppendAuditLog(ctx context.Context, entry model.AuditEntry) error {
	errPrimary := d.primary.AppendAuditLog(ctx, entry)
	errSecondary := d.secondary.AppendAuditLog(ctx, entry)
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) ReadAuditLog(ctx context.Context) ([]model.AuditEntry, error) {
	entries, err := d.primary.ReadAuditLog(ctx)
	if err == nil {
		return entries, nil
	}
	return d.secondary.ReadAuditLog(ctx)
}

func (d *DualAccessor) AppendManifest(ctx context.Context, entry model.ManifestEntry) error {
	errPrimary := d.primary.AppendManifest(ctx, entry)
	errSecondary := d.secondary.AppendManifest(ctx, entry)
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) ReadManifest(ctx context.Context) ([]model.ManifestEntry, error) {
	entries, err := d.primary.ReadManifest(ctx)
	if err == nil {
		return entries, nil
	}
	return d.secondary.ReadManifest(ctx)
}

func (d *DualAccessor) AppendCompliance(ctx context.Context, entry model.ComplianceEvent) error {
	errPrimary := d.primary.AppendCompliance(ctx, entry)
	errSecondary := d.secondary.AppendCompliance(ctx, entry)
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) ReadCompliance(ctx context.Context) ([]model.ComplianceEvent, error) {
	entries, err := d.primary.ReadCompliance(ctx)
	if err == nil {
		return entries, nil
	}
	return d.secondary.ReadCompliance(ctx)
}

func (d *DualAccessor) AppendViolation(ctx context.Context, entry model.ViolationEvent) error {
	errPrimary := d.primary.AppendViolation(ctx, entry)
	errSecondary := d.secondary.AppendViolation(ctx, entry)
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) ReadViolations(ctx context.Context) ([]model.ViolationEvent, error) {
	entries, err := d.primary.ReadViolations(ctx)
	if err == nil {
		return entries, nil
	}
	return d.secondary.ReadViolations(ctx)
}

func (d *DualAccessor) AppendTokenUsage(ctx context.Context, entry model.TokenUsageEvent) error {
	errPrimary := d.primary.AppendTokenUsage(ctx, entry)
	errSecondary := d.secondary.AppendTokenUsage(ctx, entry)
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) ReadTokenUsage(ctx context.Context) ([]model.TokenUsageEvent, error) {
	entries, err := d.primary.ReadTokenUsage(ctx)
	if err == nil {
		return entries, nil
	}
	return d.secondary.ReadTokenUsage(ctx)
}

func (d *DualAccessor) AppendSessionSnapshot(ctx context.Context, entry model.SessionTokenSnapshot) error {
	errPrimary := d.primary.AppendSessionSnapshot(ctx, entry)
	errSecondary := d.secondary.AppendSessionSnapshot(ctx, entry)
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) ReadSessionSnapshots(ctx context.Context) ([]model.SessionTokenSnapshot, error) {
	entries, err := d.primary.ReadSessionSnapshots(ctx)
	if err == nil {
		return entries, nil
	}
	return d.secondary.ReadSessionSnapshots(ctx)
}

func (d *DualAccessor) AppendGlobalAggregate(ctx context.Context, entry model.GlobalAggregateEvent) error {
	errPrimary := d.primary.AppendGlobalAggregate(ctx, entry)
	errSecondary := d.secondary.AppendGlobalAggregate(ctx, entry)
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) ReadGlobalAggregates(ctx context.Context) ([]model.GlobalAggregateEvent, error) {
	entries, err := d.primary.ReadGlobalAggregates(ctx)
	if err == nil {
		return entries, nil
	}
	return d.secondary.ReadGlobalAggregates(ctx)
}

func (d *DualAccessor) AppendABTest(ctx context.Context, entry model.ABTest) error {
	errPrimary := d.primary.AppendABTest(ctx, entry)
	errSecondary := d.secondary.AppendABTest(ctx, entry)
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}

func (d *DualAccessor) ReadABTests(ctx context.Context) ([]model.ABTest, error) {
	entries, err := d.primary.ReadABTests(ctx)
	if err == nil {
		return entries, nil
	}
	return d.secondary.ReadABTests(ctx)
}

func (d *DualAccessor) Close() error {
	errPrimary := d.primary.Close()
	errSecondary := d.secondary.Close()
	if errSecondary != nil {
		return errSecondary
	}
	return errPrimary
}
