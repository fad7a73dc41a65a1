package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddWorkout(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exercisesJson, err := json.Marshal(workout.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout
				(name, type, level, estimated_duration, description, exercises)
				VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at;`,
		workout.Name, workout.Type, workout.Level, workout.EstimatedDuration, workout.Description, exercisesJson,
	).Scan(&workout.ID, &workout.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	span.SetAttributes(attribute.Int("workout.id", workout.ID))
	return &workout, nil
}

func (r *Repo) GetWorkout(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", id))

	workout, err := scanWorkout(r.db.QueryRow(
		ctx,
		`
			SELECT
			    id, name, type, level, estimated_duration, description, exercises, created_at
			FROM workout
			WHERE id = $1
		`,
		id,
	))
	if err != nil {
		if pkg.IsNoRows(err) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("workout [query row]: %w", err)
	}
	return workout, nil
}

func (r *Repo) ListWorkouts(ctx context.Context) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
			    id, name, type, level, estimated_duration, description, exercises, created_at
			FROM workout
			ORDER BY id
		`,
	)
	if err != nil {
		return nil, fmt.Errorf("workouts [query]: %w", err)
	}
	defer rows.Close()

	workouts := []Workout{}
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("workouts [rows scan]: %w", err)
		}
		workouts = append(workouts, *workout)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workouts [rows error]: %w", err)
	}

	return workouts, nil
}

func scanWorkout(row pgx.Row) (*Workout, error) {
	var (
		workout       Workout
		exercisesJson []byte
	)
	if err := row.Scan(
		&workout.ID,
		&workout.Name,
		&workout.Type,
		&workout.Level,
		&workout.EstimatedDuration,
		&workout.Description,
		&exercisesJson,
		&workout.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(exercisesJson, &workout.Exercises); err != nil {
		return nil, fmt.Errorf("unmarshal workout exercises: %w", err)
	}
	return &workout, nil
}

func (r *Repo) AddExercise(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stepsJson, tipsJson, err := marshalExerciseLists(exercise)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise
				(name, description, muscle_group, image, steps, muscles_worked, equipment, tips)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at;`,
		exercise.Name, exercise.Description, exercise.MuscleGroup, exercise.Image,
		stepsJson, exercise.MusclesWorked, exercise.Equipment, tipsJson,
	).Scan(&exercise.ID, &exercise.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))
	return &exercise, nil
}

func (r *Repo) GetExercise(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	exercise, err := scanExercise(r.db.QueryRow(
		ctx,
		`
			SELECT
			    id, name, description, muscle_group, image, steps, muscles_worked, equipment, tips, created_at
			FROM exercise
			WHERE id = $1
		`,
		id,
	))
	if err != nil {
		if pkg.IsNoRows(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("exercise [query row]: %w", err)
	}
	return exercise, nil
}

func (r *Repo) ListExercises(ctx context.Context, muscleGroup string) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if muscleGroup != "" {
		span.SetAttributes(attribute.String("params.muscleGroup", muscleGroup))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
			    id, name, description, muscle_group, image, steps, muscles_worked, equipment, tips, created_at
			FROM exercise
			WHERE ($1::text = '' OR muscle_group = $1)
			ORDER BY id
		`,
		muscleGroup,
	)
	if err != nil {
		return nil, fmt.Errorf("exercises [query]: %w", err)
	}
	defer rows.Close()

	exercises := []Exercise{}
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("exercises [rows scan]: %w", err)
		}
		exercises = append(exercises, *exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exercises [rows error]: %w", err)
	}

	return exercises, nil
}

func (r *Repo) UpdateExercise(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))

	stepsJson, tipsJson, err := marshalExerciseLists(exercise)
	if err != nil {
		return nil, err
	}

	updated, err := scanExercise(r.db.QueryRow(
		ctx,
		`
			UPDATE exercise
			SET name = $2, description = $3, muscle_group = $4, image = $5,
			    steps = $6, muscles_worked = $7, equipment = $8, tips = $9
			WHERE id = $1
			RETURNING id, name, description, muscle_group, image, steps, muscles_worked, equipment, tips, created_at
		`,
		exercise.ID, exercise.Name, exercise.Description, exercise.MuscleGroup, exercise.Image,
		stepsJson, exercise.MusclesWorked, exercise.Equipment, tipsJson,
	))
	if err != nil {
		if pkg.IsNoRows(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("update exercise: %w", err)
	}
	return updated, nil
}

func (r *Repo) DeleteExercise(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func marshalExerciseLists(exercise Exercise) ([]byte, []byte, error) {
	stepsJson, err := json.Marshal(exercise.Steps)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal steps: %w", err)
	}
	tipsJson, err := json.Marshal(exercise.Tips)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal tips: %w", err)
	}
	return stepsJson, tipsJson, nil
}

func scanExercise(row pgx.Row) (*Exercise, error) {
	var (
		exercise  Exercise
		stepsJson []byte
		tipsJson  []byte
	)
	if err := row.Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.Description,
		&exercise.MuscleGroup,
		&exercise.Image,
		&stepsJson,
		&exercise.MusclesWorked,
		&exercise.Equipment,
		&tipsJson,
		&exercise.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stepsJson, &exercise.Steps); err != nil {
		return nil, fmt.Errorf("unmarshal exercise steps: %w", err)
	}
	if err := json.Unmarshal(tipsJson, &exercise.Tips); err != nil {
		return nil, fmt.Errorf("unmarshal exercise tips: %w", err)
	}
	return &exercise, nil
}
