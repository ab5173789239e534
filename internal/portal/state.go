package portal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicatePIN   = errors.New("pin already in use")

	// ErrNotPersisted wraps observer failures. The in-memory change it
	// reports has already been applied.
	ErrNotPersisted = errors.New("change not persisted")
)

// Collection names one independently persisted part of the state.
type Collection string

const (
	Professors  Collection = "professors"
	Students    Collection = "students"
	Classes     Collection = "classes"
	Questions   Collection = "questions"
	Simulations Collection = "simulations"
	Results     Collection = "results"
	Admin       Collection = "admin"
)

// AllCollections in the order they are loaded.
var AllCollections = []Collection{Professors, Students, Classes, Questions, Simulations, Results, Admin}

// Observer is told about every mutation with the complete new value of the
// changed collection (a slice, or AdminProfile for Admin).
type Observer interface {
	CollectionChanged(ctx context.Context, c Collection, value any) error
}

type ObserverFunc func(ctx context.Context, c Collection, value any) error

func (f ObserverFunc) CollectionChanged(ctx context.Context, c Collection, value any) error {
	return f(ctx, c, value)
}

// Data is the plain value of every collection, as loaded from storage.
type Data struct {
	Professors  []Professor
	Students    []Student
	Classes     []Class
	Questions   []Question
	Simulations []Simulation
	Results     []StudentResponse
	Admin       AdminProfile
}

// State is the process-wide application state. All mutations go through its
// methods so observers see each change exactly once.
type State struct {
	mu        sync.RWMutex
	d         Data
	observers []Observer
}

func NewState(d Data) *State {
	return &State{d: d}
}

func (s *State) Observe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// notify must be called with the write lock held so observers see changes in
// the order they were applied.
func (s *State) notify(ctx context.Context, cs ...Collection) error {
	var errs []error
	for _, c := range cs {
		v := s.valueLocked(c)
		for _, o := range s.observers {
			if err := o.CollectionChanged(ctx, c, v); err != nil {
				errs = append(errs, fmt.Errorf("%w: %s: %w", ErrNotPersisted, c, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *State) valueLocked(c Collection) any {
	switch c {
	case Professors:
		return slices.Clone(s.d.Professors)
	case Students:
		return slices.Clone(s.d.Students)
	case Classes:
		return slices.Clone(s.d.Classes)
	case Questions:
		return slices.Clone(s.d.Questions)
	case Simulations:
		return slices.Clone(s.d.Simulations)
	case Results:
		return slices.Clone(s.d.Results)
	case Admin:
		return s.d.Admin
	}
	return nil
}

// ---- professors ----

func (s *State) Professors() []Professor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.d.Professors)
}

func (s *State) Professor(id string) (Professor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.d.Professors, func(p Professor) bool { return p.ID == id })
	if i < 0 {
		return Professor{}, false
	}
	return s.d.Professors[i], true
}

// ProfessorByPIN returns the first professor in storage order whose PIN
// matches.
func (s *State) ProfessorByPIN(pin string) (Professor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.d.Professors {
		if p.PIN == pin {
			return p, true
		}
	}
	return Professor{}, false
}

func (s *State) AddProfessor(ctx context.Context, p Professor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinTakenLocked(p.PIN, "") {
		return ErrDuplicatePIN
	}
	s.d.Professors = append(s.d.Professors, p)
	return s.notify(ctx, Professors)
}

func (s *State) UpdateProfessor(ctx context.Context, p Professor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.d.Professors, func(x Professor) bool { return x.ID == p.ID })
	if i < 0 {
		return fmt.Errorf("professor %s: %w", p.ID, ErrNotFound)
	}
	if s.pinTakenLocked(p.PIN, p.ID) {
		return ErrDuplicatePIN
	}
	s.d.Professors[i] = p
	return s.notify(ctx, Professors)
}

func (s *State) RemoveProfessor(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.d.Professors)
	s.d.Professors = slices.DeleteFunc(s.d.Professors, func(p Professor) bool { return p.ID == id })
	if len(s.d.Professors) == n {
		return fmt.Errorf("professor %s: %w", id, ErrNotFound)
	}
	return s.notify(ctx, Professors)
}

func (s *State) pinTakenLocked(pin, exceptID string) bool {
	for _, p := range s.d.Professors {
		if p.ID != exceptID && p.PIN == pin {
			return true
		}
	}
	return false
}

// ---- students ----

func (s *State) Students() []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.d.Students)
}

func (s *State) Student(id string) (Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.d.Students, func(st Student) bool { return st.ID == id })
	if i < 0 {
		return Student{}, false
	}
	return s.d.Students[i], true
}

// StudentByEmail matches ignoring case.
func (s *State) StudentByEmail(email string) (Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.d.Students {
		if strings.EqualFold(st.Email, email) {
			return st, true
		}
	}
	return Student{}, false
}

func (s *State) AddStudent(ctx context.Context, st Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTakenLocked(st.Email, "") {
		return ErrDuplicateEmail
	}
	s.d.Students = append(s.d.Students, st)
	return s.notify(ctx, Students)
}

func (s *State) UpdateStudent(ctx context.Context, st Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.d.Students, func(x Student) bool { return x.ID == st.ID })
	if i < 0 {
		return fmt.Errorf("student %s: %w", st.ID, ErrNotFound)
	}
	if s.emailTakenLocked(st.Email, st.ID) {
		return ErrDuplicateEmail
	}
	s.d.Students[i] = st
	return s.notify(ctx, Students)
}

func (s *State) RemoveStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.d.Students)
	s.d.Students = slices.DeleteFunc(s.d.Students, func(st Student) bool { return st.ID == id })
	if len(s.d.Students) == n {
		return fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	return s.notify(ctx, Students)
}

func (s *State) emailTakenLocked(email, exceptID string) bool {
	for _, st := range s.d.Students {
		if st.ID != exceptID && strings.EqualFold(st.Email, email) {
			return true
		}
	}
	return false
}

// ---- classes ----

func (s *State) Classes() []Class {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.d.Classes)
}

func (s *State) Class(id string) (Class, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.d.Classes, func(c Class) bool { return c.ID == id })
	if i < 0 {
		return Class{}, false
	}
	return s.d.Classes[i], true
}

// ClassName resolves a class reference for display; empty or dangling
// references read as NoClassLabel.
func (s *State) ClassName(id string) string {
	if c, ok := s.Class(id); ok {
		return c.Name
	}
	return NoClassLabel
}

func (s *State) AddClass(ctx context.Context, c Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.Classes = append(s.d.Classes, c)
	return s.notify(ctx, Classes)
}

// RemoveClass does not touch students or simulations that reference it.
func (s *State) RemoveClass(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.d.Classes)
	s.d.Classes = slices.DeleteFunc(s.d.Classes, func(c Class) bool { return c.ID == id })
	if len(s.d.Classes) == n {
		return fmt.Errorf("class %s: %w", id, ErrNotFound)
	}
	return s.notify(ctx, Classes)
}

// ---- question bank & simulations ----

func (s *State) Questions() []Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.d.Questions)
}

func (s *State) Simulations() []Simulation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.d.Simulations)
}

func (s *State) Simulation(id string) (Simulation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.d.Simulations, func(x Simulation) bool { return x.ID == id })
	if i < 0 {
		return Simulation{}, false
	}
	return s.d.Simulations[i], true
}

// Publish appends sim to the simulations and its questions to the bank in
// one step. Each collection is still written on its own.
func (s *State) Publish(ctx context.Context, sim Simulation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sim.Questions = slices.Clone(sim.Questions)
	if sim.TargetStudentIDs == nil {
		sim.TargetStudentIDs = []string{}
	}
	s.d.Simulations = append(s.d.Simulations, sim)
	s.d.Questions = append(s.d.Questions, sim.Questions...)
	return s.notify(ctx, Simulations, Questions)
}

// ---- results ----

func (s *State) Results() []StudentResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.d.Results)
}

func (s *State) Result(id string) (StudentResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.d.Results, func(r StudentResponse) bool { return r.ID == id })
	if i < 0 {
		return StudentResponse{}, false
	}
	return s.d.Results[i], true
}

// AddResponse appends a finished attempt. Responses are never edited.
func (s *State) AddResponse(ctx context.Context, r StudentResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Answers = slices.Clone(r.Answers)
	s.d.Results = append(s.d.Results, r)
	return s.notify(ctx, Results)
}

// ---- admin profile ----

func (s *State) AdminProfile() AdminProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.Admin
}

func (s *State) UpdateAdminProfile(ctx context.Context, a AdminProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.Admin = a
	return s.notify(ctx, Admin)
}
