package main

import (
	"fmt"

	"github.com/Swind/honeydew/dispatch"
)

func parsePolicy(name string) (dispatch.Policy, error) {
	switch name {
	case "round_robin":
		return dispatch.RoundRobin, nil
	case "round_robin_priority":
		return dispatch.RoundRobinPriority, nil
	case "least_busy":
		return dispatch.LeastBusy, nil
	case "least_busy_priority":
		return dispatch.LeastBusyPriority, nil
	default:
		return 0, fmt.Errorf("unknown policy %q (want round_robin, round_robin_priority, least_busy or least_busy_priority)", name)
	}
}
