package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
	"github.com/openadmit/openadmit/pkg/domain"
	eledb "github.com/openadmit/openadmit/pkg/domain/election/db"
	"github.com/openadmit/openadmit/pkg/domain/errors/dberrors"
	"github.com/openadmit/openadmit/pkg/domain/internal/db/postgres"
)

type electionPG struct {
	pool xpool.Pool
}

var _ eledb.Interface = &electionPG{}

func New(pool xpool.Pool) *electionPG {
	return &electionPG{pool: pool}
}

func (m *electionPG) GetOrCreate(ctx context.Context, applicantId string) (domain.ElectionPackage, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.ElectionPackage{}, err
	}
	defer tx.Rollback(ctx)

	pkg, err := m.getOrCreate(ctx, tx, applicantId)
	if err != nil {
		return domain.ElectionPackage{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ElectionPackage{}, err
	}
	return pkg, nil
}

// getOrCreate fetches the package of the applicant's current election
// stage, creating the draft with its snapshot on first access.
// The applicant row is locked.
func (m *electionPG) getOrCreate(ctx context.Context, tx xpool.Tx, applicantId string) (domain.ElectionPackage, error) {
	config, stageId, err := lockOnElectionStage(ctx, tx, applicantId)
	if err != nil {
		return domain.ElectionPackage{}, err
	}

	if pkg, found, err := getPackage(ctx, tx, applicantId, stageId); err != nil {
		return domain.ElectionPackage{}, err
	} else if found {
		return pkg, nil
	}

	applicants, err := internal.GetApplicant(ctx, tx, []string{applicantId})
	if err != nil {
		return domain.ElectionPackage{}, err
	}
	applicant, ok := applicants[applicantId]
	if !ok {
		return domain.ElectionPackage{}, dberrors.Missing{
			Table: "applicant", Identity: applicantId,
		}
	}

	snapshot := takeSnapshot(applicant, config.PackageFields)
	rawSnapshot, err := json.Marshal(snapshot)
	if err != nil {
		return domain.ElectionPackage{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`
		insert into "election_package" ("applicant_id", "stage_id", "snapshot")
		values ($1, $2, $3)
		on conflict ("applicant_id", "stage_id") do nothing
		`,
		applicantId, stageId, rawSnapshot,
	); err != nil {
		return domain.ElectionPackage{}, err
	}

	pkg, found, err := getPackage(ctx, tx, applicantId, stageId)
	if err != nil {
		return domain.ElectionPackage{}, err
	}
	if !found {
		return domain.ElectionPackage{}, dberrors.Missing{
			Table:    "election_package",
			Identity: fmt.Sprintf("applicant_id = %s, stage_id = %s", applicantId, stageId),
		}
	}
	return pkg, nil
}

// takeSnapshot copies the applicant fields selected by the stage's
// package_fields toggles. Name is always present.
func takeSnapshot(applicant domain.Applicant, fields domain.PackageFields) domain.PackageSnapshot {
	snapshot := domain.PackageSnapshot{
		Name:       applicant.Profile.Name,
		NotePrompt: fields.NotePrompt,
	}
	if fields.IncludeEmail {
		email := applicant.Profile.Email
		snapshot.Email = &email
	}
	if fields.IncludePhone {
		phone := applicant.Profile.Phone
		snapshot.Phone = &phone
	}
	if fields.IncludeAddress {
		address := applicant.Profile.Address
		snapshot.Address = &address
	}
	if fields.IncludeDateOfBirth && applicant.Profile.DateOfBirth != nil {
		dob := *applicant.Profile.DateOfBirth
		snapshot.DateOfBirth = &dob
	}
	if fields.IncludeDocuments {
		for _, entry := range applicant.History {
			snapshot.Documents = append(snapshot.Documents, entry.Artifacts...)
		}
	}
	if fields.IncludeStageHistory {
		snapshot.StageHistory = applicant.History
	}
	return snapshot
}

// lockOnElectionStage locks the applicant row and returns the election
// config of their current stage.
//
// Errors: domain.ErrNotOnElectionStage unless the applicant is active
// on an election stage.
func lockOnElectionStage(ctx context.Context, tx xpool.Tx, applicantId string) (domain.ElectionStageConfig, string, error) {
	var (
		status  internal.ApplicantStatus
		stageId string
	)
	if err := tx.QueryRow(
		ctx,
		`
		select "status", "current_stage_id" from "applicant"
		where "applicant_id" = $1
		for update
		`,
		applicantId,
	).Scan(&status, &stageId); err != nil {
		if internal.IsNoRows(err) {
			return domain.ElectionStageConfig{}, "", dberrors.Missing{
				Table: "applicant", Identity: applicantId,
			}
		}
		return domain.ElectionStageConfig{}, "", err
	}

	if domain.ApplicantStatus(status) != domain.Active {
		return domain.ElectionStageConfig{}, "", fmt.Errorf(
			"%w: applicant is %s", domain.ErrNotOnElectionStage, status,
		)
	}

	stages, err := internal.GetStage(ctx, tx, []string{stageId})
	if err != nil {
		return domain.ElectionStageConfig{}, "", err
	}
	stage, ok := stages[stageId]
	if !ok {
		return domain.ElectionStageConfig{}, "", dberrors.Missing{
			Table: "stage", Identity: stageId,
		}
	}

	config, ok := stage.Config.(domain.ElectionStageConfig)
	if !ok {
		return domain.ElectionStageConfig{}, "", fmt.Errorf(
			"%w: stage %s is %s", domain.ErrNotOnElectionStage, stage.Name, stage.Type,
		)
	}
	return config, stageId, nil
}

func getPackage(ctx context.Context, conn xpool.Queryer, applicantId, stageId string) (domain.ElectionPackage, bool, error) {
	var (
		pkg         domain.ElectionPackage
		status      internal.ElectionPackageStatus
		rawSnapshot []byte
	)
	if err := conn.QueryRow(
		ctx,
		`
		select
			"package_id", "applicant_id", "stage_id", "status", "snapshot",
			"coordinator_notes", "supporting_statement",
			"submitted_at", "created_at", "updated_at"
		from "election_package"
		where "applicant_id" = $1 and "stage_id" = $2
		`,
		applicantId, stageId,
	).Scan(
		&pkg.Id, &pkg.ApplicantId, &pkg.StageId, &status, &rawSnapshot,
		&pkg.CoordinatorNotes, &pkg.SupportingStatement,
		&pkg.SubmittedAt, &pkg.CreatedAt, &pkg.UpdatedAt,
	); err != nil {
		if internal.IsNoRows(err) {
			return domain.ElectionPackage{}, false, nil
		}
		return domain.ElectionPackage{}, false, err
	}
	pkg.Status = domain.ElectionPackageStatus(status)

	if err := json.Unmarshal(rawSnapshot, &pkg.Snapshot); err != nil {
		return domain.ElectionPackage{}, false, err
	}
	return pkg, true, nil
}

func (m *electionPG) Update(ctx context.Context, applicantId string, actor string, coordinatorNotes string, supportingStatement string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	pkg, err := m.getOrCreate(ctx, tx, applicantId)
	if err != nil {
		return err
	}
	if pkg.Status != domain.PackageDraft {
		return fmt.Errorf("%w: package is %s", domain.ErrPackageNotEditable, pkg.Status)
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "election_package" set
			"coordinator_notes" = $2,
			"supporting_statement" = $3,
			"updated_at" = now()
		where "package_id" = $1
		`,
		pkg.Id, coordinatorNotes, supportingStatement,
	); err != nil {
		return err
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, actor, "package_updated", "",
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (m *electionPG) Submit(ctx context.Context, applicantId string, actor string, coordinatorNotes *string, supportingStatement *string) (domain.ElectionPackage, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.ElectionPackage{}, err
	}
	defer tx.Rollback(ctx)

	pkg, err := m.getOrCreate(ctx, tx, applicantId)
	if err != nil {
		return domain.ElectionPackage{}, err
	}
	if !pkg.Status.CanTransit(domain.PackageReady) {
		return domain.ElectionPackage{}, domain.NewErrInvalidPackageStateChanging(
			pkg.Status, domain.PackageReady,
		)
	}

	// submit saves pending edits implicitly; a bare submit keeps the
	// saved draft values.
	if _, err := tx.Exec(
		ctx,
		`
		update "election_package" set
			"status" = 'ready',
			"coordinator_notes" = coalesce($2, "coordinator_notes"),
			"supporting_statement" = coalesce($3, "supporting_statement"),
			"submitted_at" = now(),
			"updated_at" = now()
		where "package_id" = $1
		`,
		pkg.Id, coordinatorNotes, supportingStatement,
	); err != nil {
		return domain.ElectionPackage{}, err
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, actor, "package_submitted", "",
	); err != nil {
		return domain.ElectionPackage{}, err
	}

	submitted, found, err := getPackage(ctx, tx, applicantId, pkg.StageId)
	if err != nil {
		return domain.ElectionPackage{}, err
	}
	if !found {
		return domain.ElectionPackage{}, dberrors.Missing{
			Table: "election_package", Identity: pkg.Id,
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ElectionPackage{}, err
	}
	return submitted, nil
}

func (m *electionPG) SetBallotStatus(ctx context.Context, applicantId string, newStatus domain.ElectionPackageStatus) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// the elections subsystem reports against the applicant's current
	// stage; the applicant stays on it until the outcome arrives.
	var stageId string
	if err := tx.QueryRow(
		ctx,
		`
		select "current_stage_id" from "applicant"
		where "applicant_id" = $1
		for update
		`,
		applicantId,
	).Scan(&stageId); err != nil {
		if internal.IsNoRows(err) {
			return dberrors.Missing{Table: "applicant", Identity: applicantId}
		}
		return err
	}

	pkg, found, err := getPackage(ctx, tx, applicantId, stageId)
	if err != nil {
		return err
	}
	if !found {
		return dberrors.Missing{
			Table:    "election_package",
			Identity: fmt.Sprintf("applicant_id = %s, stage_id = %s", applicantId, stageId),
		}
	}

	if !pkg.Status.CanTransit(newStatus) {
		return domain.NewErrInvalidPackageStateChanging(pkg.Status, newStatus)
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "election_package" set "status" = $2, "updated_at" = now()
		where "package_id" = $1
		`,
		pkg.Id, newStatus.String(),
	); err != nil {
		return err
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, domain.SystemActor, "ballot_status",
		newStatus.String(),
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
