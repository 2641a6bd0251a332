package handler

import (
	"net/http"

	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/response"

	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
	}
}

func (h *DoctorHandler) GetDoctorSummary(w http.ResponseWriter, r *http.Request) {
	nif := mux.Vars(r)["nif"]

	summary, err := h.doctorUsecase.GetDoctorSummary(r.Context(), nif)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", summary)
}
