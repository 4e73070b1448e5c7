package fan

import "log"

// Setup enumerates every (system, ventilation) pair in the coordinator's
// current snapshot and builds one adapter per pair. Pairs appearing in later
// polls are not picked up; the set is fixed at setup time.
func Setup(coordinator Coordinator) []*VentilationFan {
	data := coordinator.Data()
	if len(data) == 0 {
		log.Printf("No system data, skipping ventilation fans")
		return nil
	}

	var fans []*VentilationFan
	for systemIndex, system := range data {
		for ventilationIndex := range system.Ventilation {
			fans = append(fans, NewVentilationFan(systemIndex, ventilationIndex, coordinator))
		}
	}

	return fans
}
