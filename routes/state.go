package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/thomasgermain/go-mypyllant/bridge"
)

type ventilationResponse struct {
	Index         int    `json:"index"`
	OperationMode string `json:"operation_mode"`
}

type systemResponse struct {
	BrandName   string                `json:"brand_name"`
	Ventilation []ventilationResponse `json:"ventilation"`
}

type stateResponse struct {
	Systems       []systemResponse `json:"systems"`
	LastRefreshed time.Time        `json:"last_refreshed"`
}

func State(b *bridge.Bridge) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		resp := stateResponse{
			Systems:       []systemResponse{},
			LastRefreshed: b.LastRefreshed(),
		}

		for _, system := range b.Systems() {
			s := systemResponse{
				BrandName:   system.BrandName,
				Ventilation: []ventilationResponse{},
			}

			for _, v := range system.Ventilation {
				s.Ventilation = append(s.Ventilation, ventilationResponse{
					Index:         v.Index,
					OperationMode: v.OperationModeVentilation.String(),
				})
			}

			resp.Systems = append(resp.Systems, s)
		}

		if marshaled, err := json.Marshal(resp); err != nil {
			log.Printf("error marshaling: %v", err)
		} else {
			w.Write(marshaled)
		}
	}
}
