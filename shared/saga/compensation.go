package saga

import "github.com/campushq/enrollment-system/shared/events"

// planCompensation produces the rollback plan for an instance: one command
// per completed step with a defined compensation, in reverse completion
// order. Steps without a compensation have nothing to undo and are skipped.
func planCompensation(def *Definition, instance *Instance) (pending []string, commands []*events.Event) {
	for i := len(instance.CompletedSteps) - 1; i >= 0; i-- {
		step := instance.CompletedSteps[i]

		reaction := def.ReactionForStep(step)
		if reaction == nil || reaction.Compensation == nil {
			continue
		}

		cmd := reaction.Compensation.Build(instance.Data)
		if cmd == nil {
			continue
		}

		pending = append(pending, step)
		commands = append(commands, cmd)
	}

	return pending, commands
}
