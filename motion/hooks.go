package motion

// Hooks are called by sampler on local space transform after it was sampled
type Hooks interface {
	// Retarget moves transform from motion bind pose onto skeleton bind pose
	Retarget(local, motionBind, skeletonBind Transform) Transform
	// InPlace removes root motion from motion extraction joint
	InPlace(local, skeletonBind Transform) Transform
	Mirror(local Transform, info MirrorInfo) Transform
}

type DefaultHooks struct{}

func (DefaultHooks) Retarget(local, motionBind, skeletonBind Transform) Transform {
	result := local
	result.Position = skeletonBind.Position.Add(local.Position.Sub(motionBind.Position))
	for i := range result.Scale {
		if motionBind.Scale[i] != 0 {
			result.Scale[i] = skeletonBind.Scale[i] * local.Scale[i] / motionBind.Scale[i]
		}
	}
	return result
}

// InPlace keeps height of joint, ground plane is XY
func (DefaultHooks) InPlace(local, skeletonBind Transform) Transform {
	result := local
	result.Position[0] = skeletonBind.Position[0]
	result.Position[1] = skeletonBind.Position[1]
	return result
}

func (DefaultHooks) Mirror(local Transform, info MirrorInfo) Transform {
	return local.Mirror(info.Axis)
}
