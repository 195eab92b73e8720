package httpapi

import (
	"net/http"
	"strings"

	"github.com/Gungunbajpai07/TutorTrack/internal/audit"
	"github.com/Gungunbajpai07/TutorTrack/internal/auth"
	"github.com/Gungunbajpai07/TutorTrack/internal/obs"
	"github.com/Gungunbajpai07/TutorTrack/internal/students"
)

type deleteResponse struct {
	Message string `json:"message"`
}

func (a *API) handleStudentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listStudents(w, r)
	case http.MethodPost:
		a.createStudent(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleStudentResource serves /students/{id} and /students/{id}/attendance.
func (a *API) handleStudentResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/students/"), "/")
	if path == "" {
		a.handleStudentsCollection(w, r)
		return
	}

	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		id := parts[0]
		switch r.Method {
		case http.MethodGet:
			a.getStudent(w, r, id)
		case http.MethodPut:
			a.updateStudent(w, r, id)
		case http.MethodDelete:
			a.deleteStudent(w, r, id)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	case len(parts) == 2 && parts[1] == "attendance":
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r, http.MethodPut)
			return
		}
		a.markAttendance(w, r, parts[0])
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) listStudents(w http.ResponseWriter, r *http.Request) {
	tutorID := callerID(r)
	list, err := a.students.List(r.Context(), tutorID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) getStudent(w http.ResponseWriter, r *http.Request, id string) {
	st, err := a.students.Get(r.Context(), callerID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *API) createStudent(w http.ResponseWriter, r *http.Request) {
	var in students.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	st, err := a.students.Create(r.Context(), callerID(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), audit.EventStudentCreate, map[string]any{
		"student_id": st.ID,
	})
	writeJSON(w, http.StatusCreated, st)
}

func (a *API) updateStudent(w http.ResponseWriter, r *http.Request, id string) {
	var p students.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	st, err := a.students.Update(r.Context(), callerID(r), id, p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), audit.EventStudentUpdate, map[string]any{
		"student_id": st.ID,
	})
	writeJSON(w, http.StatusOK, st)
}

func (a *API) deleteStudent(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.students.Delete(r.Context(), callerID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), audit.EventStudentDelete, map[string]any{
		"student_id": id,
	})
	writeJSON(w, http.StatusOK, deleteResponse{Message: "Student deleted successfully"})
}

func (a *API) markAttendance(w http.ResponseWriter, r *http.Request, id string) {
	st, err := a.students.IncrementAttendance(r.Context(), callerID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	obs.AttendanceMarked()
	_ = audit.LogEvent(r.Context(), audit.EventStudentAttendance, map[string]any{
		"student_id": st.ID,
		"attendance": st.Attendance,
	})
	writeJSON(w, http.StatusOK, st)
}

// callerID is empty only when withAuth did not run, in which case every
// student operation reports not found.
func callerID(r *http.Request) string {
	id, _ := auth.TutorIDFromContext(r.Context())
	return id
}
